// Package postprocess - Postprocessing utilities for detection models.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/vehdet/images"
)

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result, in source frame pixels.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

// SortByScore orders results by descending score. Ties keep their order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// Classes returns the class index of each result, in order.
func Classes(results []Result) []int {
	classes := make([]int, len(results))
	for i, r := range results {
		classes[i] = r.Class
	}
	return classes
}
