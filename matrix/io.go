package matrix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrFormat is wrapped by all parse errors.
var ErrFormat = errors.New("matrix: invalid format")

// ReadLabeled parses a labeled matrix:
//
//	<rows> <cols>
//	<label> <f1> ... <f(cols-1)>
//
// cols counts the label column. Labels are arbitrary tokens and are coded
// through the returned Labels. Blank lines and lines starting with # are
// skipped.
func ReadLabeled(r io.Reader) (*Matrix, *Labels, error) {
	labels := NewLabels()
	m, err := read(r, func(line int, fields []string, row []float64) error {
		row[LabelCol] = labels.Code(fields[0])
		return parseFloats(line, fields[1:], row[1:])
	})
	if err != nil {
		return nil, nil, err
	}
	return m, labels, nil
}

// Read parses an unlabeled numeric matrix with the same header as
// ReadLabeled.
func Read(r io.Reader) (*Matrix, error) {
	return read(r, func(line int, fields []string, row []float64) error {
		return parseFloats(line, fields, row)
	})
}

type rowParser func(line int, fields []string, row []float64) error

func read(r io.Reader, parse rowParser) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var m *Matrix
	var rows, cols, next, line int
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if m == nil {
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: line %d: header must be \"<rows> <cols>\"", ErrFormat, line)
			}
			var err error
			if rows, err = strconv.Atoi(fields[0]); err != nil || rows < 0 {
				return nil, fmt.Errorf("%w: line %d: bad row count %q", ErrFormat, line, fields[0])
			}
			if cols, err = strconv.Atoi(fields[1]); err != nil || cols < 1 {
				return nil, fmt.Errorf("%w: line %d: bad column count %q", ErrFormat, line, fields[1])
			}
			m = New(rows, cols)
			continue
		}
		if next >= rows {
			return nil, fmt.Errorf("%w: line %d: more than %d rows", ErrFormat, line, rows)
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d: got %d fields, want %d", ErrFormat, line, len(fields), cols)
		}
		if err := parse(line, fields, m.rows[next]); err != nil {
			return nil, err
		}
		next++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	if next != rows {
		return nil, fmt.Errorf("%w: got %d rows, header declares %d", ErrFormat, next, rows)
	}
	return m, nil
}

func parseFloats(line int, fields []string, dst []float64) error {
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %q is not a number", ErrFormat, line, f)
		}
		dst[i] = v
	}
	return nil
}

// WriteLabeled writes m one row per line as "<label> <f1> ...", resolving
// label codes through labels.
func WriteLabeled(w io.Writer, m *Matrix, labels *Labels) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < m.NumRows(); r++ {
		bw.WriteString(labels.String(m.Label(r)))
		for c := LabelCol + 1; c < m.NumCols(); c++ {
			bw.WriteByte(' ')
			bw.WriteString(FormatValue(m.Get(r, c)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatVector joins values with single spaces.
func FormatVector(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, " ")
}

// FormatValue formats v in its shortest exact form.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
