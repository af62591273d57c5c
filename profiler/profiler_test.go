package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	p := New()
	p.Record("detect", 30*time.Millisecond)
	p.Record("detect", 10*time.Millisecond)
	p.Record("detect", 20*time.Millisecond)
	p.Record("annotate", time.Millisecond)

	timings := p.Timings()
	require.Len(t, timings, 2)
	assert.Equal(t, "annotate", timings[0].Name)

	d := timings[1]
	assert.Equal(t, "detect", d.Name)
	assert.Equal(t, int64(3), d.Count)
	assert.Equal(t, 60*time.Millisecond, d.Total)
	assert.Equal(t, 10*time.Millisecond, d.Min)
	assert.Equal(t, 30*time.Millisecond, d.Max)
	assert.Equal(t, 20*time.Millisecond, d.Mean())
}

func TestStartOperation(t *testing.T) {
	p := New()
	done := p.StartOperation("write")
	time.Sleep(2 * time.Millisecond)
	done()

	timings := p.Timings()
	require.Len(t, timings, 1)
	assert.Equal(t, int64(1), timings[0].Count)
	assert.GreaterOrEqual(t, timings[0].Total, 2*time.Millisecond)
}

func TestConcurrentRecord(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Record("detect", time.Microsecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), p.Timings()[0].Count)
}

func TestEmpty(t *testing.T) {
	p := New()
	assert.Empty(t, p.Timings())
	assert.Equal(t, time.Duration(0), Timing{}.Mean())
	p.Report(logs.NewTestingLog(t))
}
