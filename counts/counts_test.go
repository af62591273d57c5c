package counts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var names = []string{"Ambulance", "Bus", "Car", "Motorcycle", "Truck"}

func TestTally(t *testing.T) {
	fc := Tally(3, 30, []int{2, 2, 4, 0, 7, -1}, 5)
	assert.Equal(t, 3, fc.Frame)
	assert.InDelta(t, 0.1, fc.TimeSec, 1e-12)
	assert.Equal(t, 6, fc.Total, "out of range classes still count toward the total")
	assert.Equal(t, []int{1, 0, 2, 0, 1}, fc.PerClass)
}

func TestTallyNoDetections(t *testing.T) {
	fc := Tally(0, 25, nil, 5)
	assert.Equal(t, 0, fc.Total)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, fc.PerClass)
	assert.Equal(t, 0.0, fc.TimeSec)
}

func TestFrameTimeDefaultsFPS(t *testing.T) {
	assert.InDelta(t, 1.0, FrameTime(30, 0), 1e-12)
	assert.InDelta(t, 1.0, FrameTime(30, -5), 1e-12)
	assert.InDelta(t, 2.0, FrameTime(50, 25), 1e-12)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, names)
	require.NoError(t, err)

	require.NoError(t, w.Write(Tally(0, 30, []int{2, 2, 4}, 5)))
	require.NoError(t, w.Write(Tally(1, 30, nil, 5)))
	require.NoError(t, w.Close())

	want := "frame,time_sec,total_dets,Ambulance,Bus,Car,Motorcycle,Truck\n" +
		"0,0.0,3,0,0,2,0,1\n" +
		"1,0.03333333333333333,0,0,0,0,0,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterRejectsWrongWidth(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, names)
	require.NoError(t, err)
	assert.ErrorContains(t, w.Write(Tally(0, 30, nil, 4)), "has 4 class counts")
}

func TestCreateAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veh_demo_counts.csv")
	w, err := Create(path, names)
	require.NoError(t, err)
	for i, classes := range [][]int{{2}, {2, 3}, {}, {0, 1, 2, 3, 4}} {
		require.NoError(t, w.Write(Tally(i, 10, classes, 5)))
	}
	require.NoError(t, w.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, names, table.Names)
	require.Len(t, table.Frames, 4)
	assert.Equal(t, 2, table.Frames[1].Total)
	assert.InDelta(t, 0.3, table.Frames[3].TimeSec, 1e-12)
	assert.Equal(t, []int{1, 1, 3, 2, 1}, table.Totals())
}

func TestWriterCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	w, err := Create(path, names)
	require.NoError(t, err)
	require.NoError(t, w.Write(Tally(0, 10, []int{2}, 5)))
	require.NoError(t, w.Close())
	// A deferred Close after an explicit one must not report the file as already closed.
	assert.NoError(t, w.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Frames, 1)
}

func TestReadCSVCoercesBadCounts(t *testing.T) {
	in := "frame,time_sec,total_dets,Ambulance,Bus,Car,Motorcycle,Truck\n" +
		"0,0.0,abc,1,,2,x,1\n" +
		"1,0.5,3.0,0,0,NaN,0,3\n" +
		"2,1.0,4\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, table.Frames, 3)

	assert.Equal(t, 0, table.Frames[0].Total)
	assert.Equal(t, []int{1, 0, 2, 0, 1}, table.Frames[0].PerClass)
	assert.Equal(t, 3, table.Frames[1].Total)
	assert.Equal(t, []int{0, 0, 0, 0, 3}, table.Frames[1].PerClass)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, table.Frames[2].PerClass, "short rows read as zero")
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")

	_, err = ReadCSV(strings.NewReader("frame,total_dets\n0,1\n"))
	assert.ErrorContains(t, err, `no "time_sec" column`)

	_, err = ReadCSV(strings.NewReader("frame,time_sec,total_dets\n0,soon,1\n"))
	assert.ErrorContains(t, err, "row 2: time_sec")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPerSecond(t *testing.T) {
	frames := []FrameCounts{
		{TimeSec: 0.0, Total: 2},
		{TimeSec: 0.4, Total: 4},
		{TimeSec: 0.5, Total: 9},  // rounds to 0
		{TimeSec: 1.49, Total: 1}, // rounds to 1
		{TimeSec: 1.5, Total: 5},  // rounds to 2
		{TimeSec: 2.5, Total: 7},  // rounds to 2
	}

	got := PerSecond(frames)
	assert.Equal(t, []SecondMean{
		{Sec: 0, MeanTotal: 5},
		{Sec: 1, MeanTotal: 1},
		{Sec: 2, MeanTotal: 6},
	}, got)
}

func TestPerSecondEmpty(t *testing.T) {
	assert.Empty(t, PerSecond(nil))
}
