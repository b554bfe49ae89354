// Package source reads raw meet-result rows from CSV exports.
//
// The exports this handles (OpenLifter and similar) sometimes start
// with a UTF-8 BOM and may carry "//" comment lines that are not part
// of the CSV body. Both are stripped before parsing.
package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

// Expected column names. Only the identity columns are required;
// anything else missing is treated as empty, not fatal.
const (
	colName        = "Name"
	colSex         = "Sex"
	colDivision    = "Division"
	colWeightClass = "WeightClassKg"
	colBodyweight  = "BodyweightKg"
	colSquat       = "Best3SquatKg"
	colBench       = "Best3BenchKg"
	colDeadlift    = "Best3DeadliftKg"
	colTotal       = "TotalKg"
	colPlace       = "Place"
)

// requiredColumns must be present in the header or the load fails.
var requiredColumns = []string{colName, colSex, colDivision}

// Reader parses CSV result exports into records.
type Reader struct {
	commentPrefix string
}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithCommentPrefix sets the marker for lines stripped before parsing.
// An empty prefix disables stripping.
func WithCommentPrefix(prefix string) Option {
	return func(r *Reader) {
		r.commentPrefix = prefix
	}
}

// NewReader creates a Reader with default configuration.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		commentPrefix: "//",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ReadFile reads records from the CSV file at path.
func (r *Reader) ReadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenSource, err)
	}
	defer func() { _ = f.Close() }()

	return r.Read(f)
}

// Read reads records from raw CSV data. The header row maps columns by
// name; rows shorter than the header leave trailing fields empty.
func (r *Reader) Read(src io.Reader) ([]model.Record, error) {
	filtered, err := r.filter(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	reader := csv.NewReader(filtered)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumns, col)
		}
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		records = append(records, model.Record{
			Name:        field(row, colName),
			Sex:         field(row, colSex),
			Division:    field(row, colDivision),
			WeightClass: field(row, colWeightClass),
			Bodyweight:  field(row, colBodyweight),
			Squat:       field(row, colSquat),
			Bench:       field(row, colBench),
			Deadlift:    field(row, colDeadlift),
			Total:       field(row, colTotal),
			Place:       field(row, colPlace),
		})
	}
	return records, nil
}

// filter strips the UTF-8 BOM and comment lines before CSV parsing.
func (r *Reader) filter(src io.Reader) (io.Reader, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b strings.Builder
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if r.commentPrefix != "" && strings.HasPrefix(strings.TrimLeft(line, " \t"), r.commentPrefix) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return strings.NewReader(b.String()), nil
}
