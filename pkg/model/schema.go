// pkg/model/schema.go
package model

// TableSchema describes the fixed shape of the published enrollment table.
type TableSchema struct {
	Delimiter  rune     // Field delimiter
	SkipLines  int      // Leading non-data lines before the first record
	Columns    []string // Expected column order
	NullTokens []string // Tokens that mean "absent" in numeric fields
	Encoding   string   // Character encoding of the resource
}

// DefaultSchema returns the schema of the published NRW enrollment CSV:
// six preamble lines, semicolon-delimited, Latin-1, with "-" and "NA" as
// null tokens.
func DefaultSchema() TableSchema {
	return TableSchema{
		Delimiter:  ';',
		SkipLines:  6,
		Columns:    []string{"Semester", "University", "Total", "Male", "Female"},
		NullTokens: []string{"-", "NA"},
		Encoding:   "latin1",
	}
}

// IsNullToken reports whether a numeric field value means "absent".
func (s TableSchema) IsNullToken(value string) bool {
	for _, token := range s.NullTokens {
		if value == token {
			return true
		}
	}
	return false
}

// ColumnCount returns the expected number of fields per record.
func (s TableSchema) ColumnCount() int {
	return len(s.Columns)
}
