package compiler

import "fmt"

// Section identifies one fragment of a node's SQL text. The compiler asks
// the translator for each section of a node in a fixed order; sections
// with nothing to say translate to "".
type Section uint16

const (
	sectionInvalid Section = iota

	SelectEntry
	SelectDistinct
	SelectFrom
	SelectWhere
	SelectGroupBy
	SelectHaving
	SelectOrderBy
	SelectLimit
	SelectLimitEnd
	SelectOffset
	SelectOffsetEnd
	SelectLock
	SelectExit

	QueryExpressionEntry
	QueryExpressionExit

	InsertEntry
	InsertColumnsEntry
	InsertColumnsExit
	InsertValuesEntry
	InsertValuesExit
	InsertDefaultValues
	InsertExit

	UpdateEntry
	UpdateSet
	UpdateFrom
	UpdateWhere
	UpdateLimit
	UpdateExit

	DeleteEntry
	DeleteFrom
	DeleteWhere
	DeleteLimit
	DeleteExit

	BatchEntry
	BatchExit

	JoinEntry
	JoinOn
	JoinExit

	TableRefAlias

	QueryRefEntry
	QueryRefExit
	QueryRefAlias

	ColumnRefAlias

	FunctionCallEntry
	FunctionCallArgumentEntry
	FunctionCallArgumentDelimiter
	FunctionCallExit

	CastEntry
	CastExit

	ExtractEntry
	ExtractFrom
	ExtractExit

	TrimEntry
	TrimCharacters
	TrimFrom
	TrimExit

	CaseEntry
	CaseWhen
	CaseThen
	CaseElse
	CaseExit

	BetweenEntry
	BetweenBetween
	BetweenAnd
	BetweenExit

	LikeEntry
	LikeLike
	LikeEscape
	LikeExit

	BinaryEntry
	BinaryExit

	UnaryEntry
	UnaryExit

	RowEntry
	RowExit

	SubQueryEntry
	SubQueryExit

	AggregateEntry
	AggregateExit

	CursorEntry

	NextValueEntry

	OrderExit

	CreateTableEntry
	CreateTableColumnsEntry
	CreateTableItemDelimiter
	CreateTableColumnsExit
	CreateTableExit

	TableColumnEntry
	TableColumnType
	TableColumnGeneratedEntry
	TableColumnGeneratedExit
	TableColumnDefault
	TableColumnCollate
	TableColumnNullable
	TableColumnExit

	SequenceStartValue
	SequenceIncrement
	SequenceMinValue
	SequenceMaxValue
	SequenceCycle

	ConstraintEntry
	ConstraintReferencedTable
	ConstraintExit

	AlterTableEntry
	AlterTableAddColumn
	AlterTableDropColumn
	AlterTableAddConstraint
	AlterTableDropConstraint
	AlterTableSetDefault
	AlterTableDropDefault
	AlterTableRenameColumn
	AlterTableDropBehavior
	AlterTableExit

	AlterDomainEntry
	AlterDomainAddConstraint
	AlterDomainDropConstraint
	AlterDomainSetDefault
	AlterDomainDropDefault
	AlterDomainExit

	CreateViewEntry
	CreateViewColumns
	CreateViewAs
	CreateViewExit

	CreateIndexEntry
	CreateIndexColumnsEntry
	CreateIndexColumnsExit
	CreateIndexWhere
	CreateIndexExit

	DropIndexEntry

	DropTableEntry

	DropViewEntry

	CreateSchemaEntry

	DropSchemaEntry

	CreateSequenceEntry
	CreateSequenceExit

	AlterSequenceEntry
	AlterSequenceExit

	DropSequenceEntry

	CreateDomainEntry
	CreateDomainExit

	DropDomainEntry

	DropBehavior

	sectionCount
)

var sectionNames = [...]string{
	SelectEntry:                   "Select.Entry",
	SelectDistinct:                "Select.Distinct",
	SelectFrom:                    "Select.From",
	SelectWhere:                   "Select.Where",
	SelectGroupBy:                 "Select.GroupBy",
	SelectHaving:                  "Select.Having",
	SelectOrderBy:                 "Select.OrderBy",
	SelectLimit:                   "Select.Limit",
	SelectLimitEnd:                "Select.LimitEnd",
	SelectOffset:                  "Select.Offset",
	SelectOffsetEnd:               "Select.OffsetEnd",
	SelectLock:                    "Select.Lock",
	SelectExit:                    "Select.Exit",
	QueryExpressionEntry:          "QueryExpression.Entry",
	QueryExpressionExit:           "QueryExpression.Exit",
	InsertEntry:                   "Insert.Entry",
	InsertColumnsEntry:            "Insert.ColumnsEntry",
	InsertColumnsExit:             "Insert.ColumnsExit",
	InsertValuesEntry:             "Insert.ValuesEntry",
	InsertValuesExit:              "Insert.ValuesExit",
	InsertDefaultValues:           "Insert.DefaultValues",
	InsertExit:                    "Insert.Exit",
	UpdateEntry:                   "Update.Entry",
	UpdateSet:                     "Update.Set",
	UpdateFrom:                    "Update.From",
	UpdateWhere:                   "Update.Where",
	UpdateLimit:                   "Update.Limit",
	UpdateExit:                    "Update.Exit",
	DeleteEntry:                   "Delete.Entry",
	DeleteFrom:                    "Delete.From",
	DeleteWhere:                   "Delete.Where",
	DeleteLimit:                   "Delete.Limit",
	DeleteExit:                    "Delete.Exit",
	BatchEntry:                    "Batch.Entry",
	BatchExit:                     "Batch.Exit",
	JoinEntry:                     "Join.Entry",
	JoinOn:                        "Join.On",
	JoinExit:                      "Join.Exit",
	TableRefAlias:                 "TableRef.Alias",
	QueryRefEntry:                 "QueryRef.Entry",
	QueryRefExit:                  "QueryRef.Exit",
	QueryRefAlias:                 "QueryRef.Alias",
	ColumnRefAlias:                "ColumnRef.Alias",
	FunctionCallEntry:             "FunctionCall.Entry",
	FunctionCallArgumentEntry:     "FunctionCall.ArgumentEntry",
	FunctionCallArgumentDelimiter: "FunctionCall.ArgumentDelimiter",
	FunctionCallExit:              "FunctionCall.Exit",
	CastEntry:                     "Cast.Entry",
	CastExit:                      "Cast.Exit",
	ExtractEntry:                  "Extract.Entry",
	ExtractFrom:                   "Extract.From",
	ExtractExit:                   "Extract.Exit",
	TrimEntry:                     "Trim.Entry",
	TrimCharacters:                "Trim.Characters",
	TrimFrom:                      "Trim.From",
	TrimExit:                      "Trim.Exit",
	CaseEntry:                     "Case.Entry",
	CaseWhen:                      "Case.When",
	CaseThen:                      "Case.Then",
	CaseElse:                      "Case.Else",
	CaseExit:                      "Case.Exit",
	BetweenEntry:                  "Between.Entry",
	BetweenBetween:                "Between.Between",
	BetweenAnd:                    "Between.And",
	BetweenExit:                   "Between.Exit",
	LikeEntry:                     "Like.Entry",
	LikeLike:                      "Like.Like",
	LikeEscape:                    "Like.Escape",
	LikeExit:                      "Like.Exit",
	BinaryEntry:                   "Binary.Entry",
	BinaryExit:                    "Binary.Exit",
	UnaryEntry:                    "Unary.Entry",
	UnaryExit:                     "Unary.Exit",
	RowEntry:                      "Row.Entry",
	RowExit:                       "Row.Exit",
	SubQueryEntry:                 "SubQuery.Entry",
	SubQueryExit:                  "SubQuery.Exit",
	AggregateEntry:                "Aggregate.Entry",
	AggregateExit:                 "Aggregate.Exit",
	CursorEntry:                   "Cursor.Entry",
	NextValueEntry:                "NextValue.Entry",
	OrderExit:                     "Order.Exit",
	CreateTableEntry:              "CreateTable.Entry",
	CreateTableColumnsEntry:       "CreateTable.ColumnsEntry",
	CreateTableItemDelimiter:      "CreateTable.ItemDelimiter",
	CreateTableColumnsExit:        "CreateTable.ColumnsExit",
	CreateTableExit:               "CreateTable.Exit",
	TableColumnEntry:              "TableColumn.Entry",
	TableColumnType:               "TableColumn.Type",
	TableColumnGeneratedEntry:     "TableColumn.GeneratedEntry",
	TableColumnGeneratedExit:      "TableColumn.GeneratedExit",
	TableColumnDefault:            "TableColumn.Default",
	TableColumnCollate:            "TableColumn.Collate",
	TableColumnNullable:           "TableColumn.Nullable",
	TableColumnExit:               "TableColumn.Exit",
	SequenceStartValue:            "Sequence.StartValue",
	SequenceIncrement:             "Sequence.Increment",
	SequenceMinValue:              "Sequence.MinValue",
	SequenceMaxValue:              "Sequence.MaxValue",
	SequenceCycle:                 "Sequence.Cycle",
	ConstraintEntry:               "Constraint.Entry",
	ConstraintReferencedTable:     "Constraint.ReferencedTable",
	ConstraintExit:                "Constraint.Exit",
	AlterTableEntry:               "AlterTable.Entry",
	AlterTableAddColumn:           "AlterTable.AddColumn",
	AlterTableDropColumn:          "AlterTable.DropColumn",
	AlterTableAddConstraint:       "AlterTable.AddConstraint",
	AlterTableDropConstraint:      "AlterTable.DropConstraint",
	AlterTableSetDefault:          "AlterTable.SetDefault",
	AlterTableDropDefault:         "AlterTable.DropDefault",
	AlterTableRenameColumn:        "AlterTable.RenameColumn",
	AlterTableDropBehavior:        "AlterTable.DropBehavior",
	AlterTableExit:                "AlterTable.Exit",
	AlterDomainEntry:              "AlterDomain.Entry",
	AlterDomainAddConstraint:      "AlterDomain.AddConstraint",
	AlterDomainDropConstraint:     "AlterDomain.DropConstraint",
	AlterDomainSetDefault:         "AlterDomain.SetDefault",
	AlterDomainDropDefault:        "AlterDomain.DropDefault",
	AlterDomainExit:               "AlterDomain.Exit",
	CreateViewEntry:               "CreateView.Entry",
	CreateViewColumns:             "CreateView.Columns",
	CreateViewAs:                  "CreateView.As",
	CreateViewExit:                "CreateView.Exit",
	CreateIndexEntry:              "CreateIndex.Entry",
	CreateIndexColumnsEntry:       "CreateIndex.ColumnsEntry",
	CreateIndexColumnsExit:        "CreateIndex.ColumnsExit",
	CreateIndexWhere:              "CreateIndex.Where",
	CreateIndexExit:               "CreateIndex.Exit",
	DropIndexEntry:                "DropIndex.Entry",
	DropTableEntry:                "DropTable.Entry",
	DropViewEntry:                 "DropView.Entry",
	CreateSchemaEntry:             "CreateSchema.Entry",
	DropSchemaEntry:               "DropSchema.Entry",
	CreateSequenceEntry:           "CreateSequence.Entry",
	CreateSequenceExit:            "CreateSequence.Exit",
	AlterSequenceEntry:            "AlterSequence.Entry",
	AlterSequenceExit:             "AlterSequence.Exit",
	DropSequenceEntry:             "DropSequence.Entry",
	CreateDomainEntry:             "CreateDomain.Entry",
	CreateDomainExit:              "CreateDomain.Exit",
	DropDomainEntry:               "DropDomain.Entry",
	DropBehavior:                  "Drop.Behavior",
}

func (s Section) String() string {
	if s == sectionInvalid || s >= sectionCount {
		return fmt.Sprintf("Section(%d)", uint16(s))
	}
	return sectionNames[s]
}

// Valid reports whether s belongs to the registered universe.
func (s Section) Valid() bool { return s > sectionInvalid && s < sectionCount }

// Sections returns the registered universe in declaration order.
func Sections() []Section {
	out := make([]Section, 0, sectionCount-1)
	for s := sectionInvalid + 1; s < sectionCount; s++ {
		out = append(out, s)
	}
	return out
}
