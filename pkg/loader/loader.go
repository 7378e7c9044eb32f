// pkg/loader/loader.go
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"enrolltrend/pkg/model"
)

// SchemaError indicates the resource does not match the expected five-column
// layout. It is fatal to the run.
type SchemaError struct {
	Line int
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch at line %d: %v", e.Line, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Loader parses the delimited enrollment resource into raw rows.
type Loader struct {
	schema model.TableSchema
	logger *zap.Logger
}

// NewLoader creates a loader for the given schema.
func NewLoader(schema model.TableSchema, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if schema.ColumnCount() == 0 {
		return nil, errors.New("schema must define at least one column")
	}

	return &Loader{
		schema: schema,
		logger: logger,
	}, nil
}

// Load reads the full resource and returns the ordered sequence of raw rows.
// Text fields are preserved verbatim: the University field's leading
// whitespace encodes hierarchy depth and must not be trimmed here.
func (l *Loader) Load(r io.Reader) ([]model.RawRow, error) {
	decoded, err := l.decode(r)
	if err != nil {
		return nil, err
	}

	buffered := bufio.NewReader(decoded)

	// The published table carries a fixed-size preamble before the header
	// row; those lines are not data and do not follow the column layout.
	for i := 0; i < l.schema.SkipLines; i++ {
		if _, err := buffered.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, &SchemaError{
					Line: i + 1,
					Err:  fmt.Errorf("resource ended inside %d-line preamble", l.schema.SkipLines),
				}
			}
			return nil, fmt.Errorf("failed to skip preamble: %w", err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.Comma = l.schema.Delimiter
	reader.FieldsPerRecord = l.schema.ColumnCount()
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false

	var rows []model.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := l.schema.SkipLines
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line += parseErr.Line
			}
			return nil, &SchemaError{Line: line, Err: err}
		}

		rows = append(rows, l.toRawRow(record))
	}

	l.logger.Info("Loaded raw rows",
		zap.Int("rows", len(rows)),
		zap.Int("skipped_preamble_lines", l.schema.SkipLines))

	return rows, nil
}

// decode wraps the stream with the schema's character decoder.
func (l *Loader) decode(r io.Reader) (io.Reader, error) {
	switch l.schema.Encoding {
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "utf8", "utf-8", "":
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", l.schema.Encoding)
	}
}

// toRawRow maps one record to a RawRow. Columns follow the fixed layout
// Semester;University;Total;Male;Female.
func (l *Loader) toRawRow(record []string) model.RawRow {
	return model.RawRow{
		SemesterLabel:   record[0],
		UniversityLabel: record[1],
		Total:           l.parseCount(record[2]),
		Male:            l.parseCount(record[3]),
		Female:          l.parseCount(record[4]),
	}
}
