package dataset

import (
	"strconv"
	"strings"

	"github.com/nvr-ai/vehdet/models"
)

// labelFields is the token count of a YOLO label line: class, x_center, y_center, width, height.
const labelFields = 5

// RemapResult holds the outcome of remapping one label file.
type RemapResult struct {
	// Lines are the kept label lines with their class id rewritten.
	Lines []string
	// Objects counts kept lines per target class.
	Objects []int
	// Discarded counts non-empty lines that were malformed, out of range or dropped.
	Discarded int
}

// RemapLabels rewrites the class id of every line in a YOLO label file through m.
//
// Lines without exactly five whitespace-separated tokens, lines whose class id
// is not an integer inside the source taxonomy, and lines whose class maps to
// models.Drop are discarded. The box tokens of kept lines are preserved as text.
func RemapLabels(text string, m *models.ClassMapping) RemapResult {
	res := RemapResult{Objects: make([]int, m.To().Len())}

	// Invalid UTF-8 sequences are ignored rather than failing the file.
	text = strings.TrimSpace(strings.ToValidUTF8(text, ""))
	if text == "" {
		return res
	}

	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if len(parts) != labelFields {
			res.Discarded++
			continue
		}
		oldID, err := strconv.Atoi(parts[0])
		if err != nil {
			res.Discarded++
			continue
		}
		newID, ok := m.Remap(oldID)
		if !ok {
			res.Discarded++
			continue
		}
		parts[0] = strconv.Itoa(newID)
		res.Lines = append(res.Lines, strings.Join(parts, " "))
		res.Objects[newID]++
	}
	return res
}
