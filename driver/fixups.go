package driver

import (
	"strings"

	"github.com/bawdo/sqldom/model"
)

// generatorSuffix marks the single-column tables SQLite storages use in
// place of sequences.
const generatorSuffix = "-Generator"

func (s *StorageDriver) fixExtractionResult(res *ExtractionResult) {
	switch s.driver.Provider {
	case ProviderSqlServer:
		s.dropSysDiagrams(res)
	case ProviderSQLite:
		s.restoreGenerators(res)
	}
}

// dropSysDiagrams removes the designer table SQL Server management tools
// create in user databases.
func (s *StorageDriver) dropSysDiagrams(res *ExtractionResult) {
	for _, cat := range res.Catalogs {
		for _, schema := range cat.Schemas.Items() {
			if t := schema.Tables.Get("sysdiagrams"); t != nil {
				schema.Tables.Remove(t)
				s.logger.Info("removed sysdiagrams from extracted schema", "catalog", cat.Name, "schema", schema.Name)
			}
		}
	}
}

// restoreGenerators gives generator tables back the identity descriptor
// SQLite does not report.
func (s *StorageDriver) restoreGenerators(res *ExtractionResult) {
	for _, cat := range res.Catalogs {
		for _, schema := range cat.Schemas.Items() {
			for _, t := range schema.Tables.Items() {
				if !strings.HasSuffix(t.Name, generatorSuffix) || t.Columns.Len() != 1 {
					continue
				}
				col := t.Columns.Items()[0]
				if col.SequenceDescriptor != nil {
					continue
				}
				col.SequenceDescriptor = model.NewSequenceDescriptor(col, 1, 1)
				s.logger.Info("restored generator sequence", "table", t.Name, "column", col.Name)
			}
		}
	}
}
