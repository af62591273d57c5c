package yolo

import (
	"regexp"
	"strconv"
	"strings"
)

// Metrics are the box metrics of one row of the validation table.
type Metrics struct {
	Images    int
	Instances int
	Precision float64
	Recall    float64
	MAP50     float64
	MAP5095   float64
}

// Summary is the validation table printed at the end of a val run or training.
type Summary struct {
	// All is the row aggregated over every class.
	All Metrics
	// Classes holds the per-class rows, keyed by class name, when the run was verbose.
	Classes map[string]Metrics
	// Order lists the per-class rows as printed.
	Order []string
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ParseSummary finds the validation table in the tool's output.
// ok is false when no "all" row is present. If the table was printed more
// than once, the last one wins.
func ParseSummary(output string) (summary Summary, ok bool) {
	output = ansiEscape.ReplaceAllString(output, "")

	var current *Summary
	for _, line := range strings.FieldsFunc(output, func(r rune) bool { return r == '\n' || r == '\r' }) {
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		// Class names may contain spaces; the last six fields are numeric.
		name := strings.Join(fields[:len(fields)-6], " ")
		m, valid := parseMetrics(fields[len(fields)-6:])
		if !valid {
			continue
		}
		if name == "all" {
			current = &Summary{All: m, Classes: map[string]Metrics{}}
			summary, ok = *current, true
			continue
		}
		if current != nil {
			if _, seen := current.Classes[name]; !seen {
				current.Order = append(current.Order, name)
			}
			current.Classes[name] = m
			summary = *current
		}
	}
	return summary, ok
}

func parseMetrics(f []string) (Metrics, bool) {
	images, err1 := strconv.Atoi(f[0])
	instances, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil {
		return Metrics{}, false
	}
	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(f[2+i], 64)
		if err != nil {
			return Metrics{}, false
		}
		vals[i] = v
	}
	return Metrics{
		Images:    images,
		Instances: instances,
		Precision: vals[0],
		Recall:    vals[1],
		MAP50:     vals[2],
		MAP5095:   vals[3],
	}, true
}

var savedTo = regexp.MustCompile(`Results saved to (\S+)`)

// ParseSaveDir returns the directory the tool reported writing results to.
func ParseSaveDir(output string) (string, bool) {
	output = ansiEscape.ReplaceAllString(output, "")
	m := savedTo.FindAllStringSubmatch(output, -1)
	if len(m) == 0 {
		return "", false
	}
	return m[len(m)-1][1], true
}
