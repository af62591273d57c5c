package dataset

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/nvr-ai/vehdet/models"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// Splits are the dataset partitions converted by Convert, in order.
var Splits = []string{"train", "valid"}

// SplitPaths locates the source and destination directories of one split.
type SplitPaths struct {
	SrcImages string
	SrcLabels string
	DstImages string
	DstLabels string
}

// NewSplitPaths returns the <root>/<split>/{images,labels} layout for a split.
func NewSplitPaths(srcRoot, dstRoot, split string) SplitPaths {
	return SplitPaths{
		SrcImages: filepath.Join(srcRoot, split, "images"),
		SrcLabels: filepath.Join(srcRoot, split, "labels"),
		DstImages: filepath.Join(dstRoot, split, "images"),
		DstLabels: filepath.Join(dstRoot, split, "labels"),
	}
}

// SplitResult summarises one converted split.
type SplitResult struct {
	Split string
	// Images is the number of images copied.
	Images int
	// Objects counts written label lines per target class.
	Objects []int
	// Discarded counts label lines that were not written.
	Discarded int
}

// Result summarises a full conversion.
type Result struct {
	Splits []SplitResult
}

// Split returns the result for the named split.
func (r *Result) Split(name string) (SplitResult, bool) {
	for _, s := range r.Splits {
		if s.Split == name {
			return s, true
		}
	}
	return SplitResult{}, false
}

// Totals sums the per-class object counts over all splits.
func (r *Result) Totals() []int {
	var totals []int
	for _, s := range r.Splits {
		if totals == nil {
			totals = make([]int, len(s.Objects))
		}
		for i, n := range s.Objects {
			totals[i] += n
		}
	}
	return totals
}

// Converter copies a dataset and rewrites its labels into another taxonomy.
// It runs sequentially and stops at the first I/O error, leaving any files it
// already wrote in place.
type Converter struct {
	Log     logs.Log
	Mapping *models.ClassMapping
	// Progress receives a progress bar per split. Nil disables it.
	Progress io.Writer
}

// NewConverter returns a Converter for the road vehicle to 5-class vehicle mapping.
func NewConverter(log logs.Log) *Converter {
	return &Converter{
		Log:     log,
		Mapping: models.VehicleMapping(),
	}
}

// Convert converts every split in Splits from srcRoot into dstRoot.
// The source root is not validated up front: a missing split directory
// surfaces as the listing error of that split and aborts the run.
func (c *Converter) Convert(srcRoot, dstRoot string) (*Result, error) {
	res := &Result{}
	for _, split := range Splits {
		sr, err := c.ConvertSplit(split, NewSplitPaths(srcRoot, dstRoot, split))
		if err != nil {
			return nil, errors.Wrapf(err, "converting split %s", split)
		}
		res.Splits = append(res.Splits, sr)
	}
	return res, nil
}

// ConvertSplit copies every image of one split and writes its remapped label
// file. A label file is written for every image, empty when the source has no
// label file or none of its lines survive.
func (c *Converter) ConvertSplit(name string, p SplitPaths) (SplitResult, error) {
	res := SplitResult{Split: name, Objects: make([]int, c.Mapping.To().Len())}

	for _, dir := range []string{p.DstImages, p.DstLabels} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, errors.Wrapf(err, "creating %s", dir)
		}
	}

	images, err := ListImages(p.SrcImages)
	if err != nil {
		return res, err
	}

	bar := c.newBar(name, len(images))
	for _, img := range images {
		if err := copyFile(filepath.Join(p.SrcImages, img), filepath.Join(p.DstImages, img)); err != nil {
			return res, err
		}

		lbl := LabelName(img)
		remapped, err := c.remapFile(filepath.Join(p.SrcLabels, lbl))
		if err != nil {
			return res, err
		}

		dstLabel := filepath.Join(p.DstLabels, lbl)
		if err := os.WriteFile(dstLabel, []byte(strings.Join(remapped.Lines, "\n")), 0o644); err != nil {
			return res, errors.Wrapf(err, "writing labels %s", dstLabel)
		}

		for i, n := range remapped.Objects {
			res.Objects[i] += n
		}
		res.Discarded += remapped.Discarded
		res.Images++
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if c.Log != nil {
		c.Log.Infof("Converted %v: %v images, %v objects, %v label lines discarded", name, res.Images, sum(res.Objects), res.Discarded)
	}
	return res, nil
}

// remapFile reads and remaps one label file. A missing file yields zero objects.
func (c *Converter) remapFile(path string) (RemapResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return RemapResult{Objects: make([]int, c.Mapping.To().Len())}, nil
	} else if err != nil {
		return RemapResult{}, errors.Wrapf(err, "reading labels %s", path)
	}
	return RemapLabels(string(data), c.Mapping), nil
}

func (c *Converter) newBar(split string, total int) *progressbar.ProgressBar {
	if c.Progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.Progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan]["+split+"][reset] Converting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func sum(v []int) int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}
