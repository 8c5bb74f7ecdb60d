// Package quoting provides identifier and string literal quoting shared by
// the dialect translators.
package quoting

import "strings"

// Style is a pair of identifier delimiters. The closing delimiter is
// escaped inside identifiers by doubling it.
type Style struct {
	Open  string
	Close string
}

var (
	// DoubleQuotes is the ANSI style used by PostgreSQL, SQLite, Oracle and Firebird.
	DoubleQuotes = Style{Open: `"`, Close: `"`}
	// Backticks is the MySQL style.
	Backticks = Style{Open: "`", Close: "`"}
	// Brackets is the SQL Server style.
	Brackets = Style{Open: "[", Close: "]"}
)

// Quote delimits a single identifier.
func (s Style) Quote(name string) string {
	return s.Open + strings.ReplaceAll(name, s.Close, s.Close+s.Close) + s.Close
}

// QuoteQualified quotes each non-empty part and joins them with dots.
func (s Style) QuoteQualified(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Quote(p))
	}
	return b.String()
}

// DoubleQuote quotes a SQL identifier using double quotes.
func DoubleQuote(s string) string { return DoubleQuotes.Quote(s) }

// Backtick quotes a SQL identifier using backticks (MySQL).
func Backtick(s string) string { return Backticks.Quote(s) }

// Bracket quotes a SQL identifier using square brackets (SQL Server).
func Bracket(s string) string { return Brackets.Quote(s) }

// EscapeString escapes a string literal body by doubling single quotes.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeStringBackslash escapes a string literal body for servers that
// treat backslash as an escape character (MySQL).
//
// SECURITY: MySQL with non-default character sets (GBK, SJIS) may have
// multi-byte sequences where a trailing byte coincides with backslash or
// quote. Bind parameters avoid this class of attack entirely.
func EscapeStringBackslash(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeLikePattern escapes LIKE wildcard characters (%, _) in a string
// so they are matched literally. The backslash is used as the escape character.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
