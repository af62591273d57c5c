package counts

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fixed leading columns of the counts table; one column per class follows.
const (
	ColFrame   = "frame"
	ColTimeSec = "time_sec"
	ColTotal   = "total_dets"
)

// Header returns the counts table header for the given class names.
func Header(names []string) []string {
	return append([]string{ColFrame, ColTimeSec, ColTotal}, names...)
}

// Writer writes a counts table as CSV.
type Writer struct {
	csv    *csv.Writer
	closer io.Closer
	names  []string
	closed bool
}

// NewWriter writes the header for names to w and returns a Writer for the rows.
func NewWriter(w io.Writer, names []string) (*Writer, error) {
	cw := &Writer{csv: csv.NewWriter(w), names: names}
	if err := cw.csv.Write(Header(names)); err != nil {
		return nil, errors.Wrap(err, "writing counts header")
	}
	return cw, nil
}

// Create creates or truncates path and returns a Writer on it.
func Create(path string, names []string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating counts file %s", path)
	}
	cw, err := NewWriter(f, names)
	if err != nil {
		f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// Write appends one row.
func (w *Writer) Write(fc FrameCounts) error {
	if len(fc.PerClass) != len(w.names) {
		return errors.Errorf("frame %d has %d class counts, table has %d classes", fc.Frame, len(fc.PerClass), len(w.names))
	}
	record := make([]string, 0, 3+len(fc.PerClass))
	record = append(record,
		strconv.Itoa(fc.Frame),
		formatSeconds(fc.TimeSec),
		strconv.Itoa(fc.Total))
	for _, n := range fc.PerClass {
		record = append(record, strconv.Itoa(n))
	}
	return errors.Wrapf(w.csv.Write(record), "writing counts for frame %d", fc.Frame)
}

// Close flushes buffered rows and closes the file opened by Create.
// Closing an already closed Writer does nothing.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.csv.Flush()
	err := w.csv.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "closing counts file")
}

// formatSeconds prints the shortest exact decimal, always with a fractional part.
func formatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Table is a counts table read back from CSV.
type Table struct {
	// Names are the class columns, in order.
	Names  []string
	Frames []FrameCounts
}

// ReadCSV parses a counts table. The leading columns are located by name.
// Count cells that are empty or not numeric are read as 0.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing counts CSV")
	}
	if len(records) == 0 {
		return nil, errors.New("counts CSV is empty")
	}

	header := records[0]
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColFrame, ColTimeSec, ColTotal} {
		if _, ok := col[required]; !ok {
			return nil, errors.Errorf("counts CSV has no %q column", required)
		}
	}

	t := &Table{}
	var classCols []int
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColFrame, ColTimeSec, ColTotal:
		default:
			t.Names = append(t.Names, strings.TrimSpace(name))
			classCols = append(classCols, i)
		}
	}

	for n, rec := range records[1:] {
		cell := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		timeSec, err := strconv.ParseFloat(cell(col[ColTimeSec]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: time_sec", n+2)
		}
		fc := FrameCounts{
			Frame:    coerceInt(cell(col[ColFrame])),
			TimeSec:  timeSec,
			Total:    coerceInt(cell(col[ColTotal])),
			PerClass: make([]int, len(classCols)),
		}
		for j, c := range classCols {
			fc.PerClass[j] = coerceInt(cell(c))
		}
		t.Frames = append(t.Frames, fc)
	}
	return t, nil
}

// ReadFile reads the counts table at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening counts file %s", path)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	return t, errors.Wrap(err, path)
}

// coerceInt reads an integer count, truncating decimals. Anything else is 0.
func coerceInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}
