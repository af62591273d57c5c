package dataset

import (
	"strconv"
	"testing"

	"github.com/nvr-ai/vehdet/models"
	"github.com/stretchr/testify/assert"
)

func TestRemapLabels(t *testing.T) {
	m := models.VehicleMapping()

	tests := []struct {
		name      string
		input     string
		want      []string
		objects   []int
		discarded int
	}{
		{
			name:    "car becomes Car",
			input:   "5 0.5 0.5 0.2 0.3",
			want:    []string{"2 0.5 0.5 0.2 0.3"},
			objects: []int{0, 0, 1, 0, 0},
		},
		{
			name:      "bicycle is dropped",
			input:     "3 0.1 0.1 0.05 0.05",
			want:      nil,
			objects:   []int{0, 0, 0, 0, 0},
			discarded: 1,
		},
		{
			name:      "malformed line does not stop later lines",
			input:     "5 0.5 0.5 0.2\n18 0.4 0.4 0.1 0.1",
			want:      []string{"4 0.4 0.4 0.1 0.1"},
			objects:   []int{0, 0, 0, 0, 1},
			discarded: 1,
		},
		{
			name:      "out of range class id",
			input:     "21 0.5 0.5 0.2 0.3\n-1 0.5 0.5 0.2 0.3\n0 0.1 0.2 0.3 0.4",
			want:      []string{"0 0.1 0.2 0.3 0.4"},
			objects:   []int{1, 0, 0, 0, 0},
			discarded: 2,
		},
		{
			name:      "non integer class id",
			input:     "car 0.5 0.5 0.2 0.3\n5.0 0.5 0.5 0.2 0.3",
			want:      nil,
			objects:   []int{0, 0, 0, 0, 0},
			discarded: 2,
		},
		{
			name:    "crlf, blank lines and extra whitespace",
			input:   "\r\n 10\t0.1  0.2 0.3 0.4 \r\n\r\n   \n14 0.5 0.6 0.7 0.8\r\n",
			want:    []string{"3 0.1 0.2 0.3 0.4", "3 0.5 0.6 0.7 0.8"},
			objects: []int{0, 0, 0, 2, 0},
		},
		{
			name:    "empty file",
			input:   "",
			want:    nil,
			objects: []int{0, 0, 0, 0, 0},
		},
		{
			name:    "box tokens are kept verbatim",
			input:   "8 0.500000 .25 1e-1 0.3",
			want:    []string{"1 0.500000 .25 1e-1 0.3"},
			objects: []int{0, 1, 0, 0, 0},
		},
		{
			name:      "invalid utf-8 is ignored",
			input:     "4 0.5 0.5 0.2 0.3\n\xff\xfe\n20 0.1 0.1 0.1 0.1",
			want:      []string{"1 0.5 0.5 0.2 0.3"},
			objects:   []int{0, 1, 0, 0, 0},
			discarded: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemapLabels(tt.input, m)
			assert.Equal(t, tt.want, got.Lines)
			assert.Equal(t, tt.objects, got.Objects)
			assert.Equal(t, tt.discarded, got.Discarded)
		})
	}
}

func TestRemapLabelsKeptIDsInRange(t *testing.T) {
	m := models.VehicleMapping()

	input := ""
	for id := -2; id < 24; id++ {
		input += strconv.Itoa(id) + " 0.5 0.5 0.1 0.1\n"
	}

	got := RemapLabels(input, m)
	kept := 0
	for _, line := range got.Lines {
		id := line[0] - '0'
		assert.Less(t, int(id), models.NumVehicleClasses, line)
		kept++
	}
	assert.Equal(t, 19, kept, "21 classes minus bicycle and wheelbarrow")
	assert.Equal(t, kept, sum(got.Objects))
	assert.Equal(t, 7, got.Discarded)
}
