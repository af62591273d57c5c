package video

import (
	"context"
	"io"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/nvr-ai/vehdet/counts"
	"github.com/nvr-ai/vehdet/detector"
	"github.com/nvr-ai/vehdet/models/postprocess"
	"github.com/nvr-ai/vehdet/profiler"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"gocv.io/x/gocv"
)

// DefaultFourCC is the codec of the annotated output video.
const DefaultFourCC = "mp4v"

// Stage names recorded in Summary.Stages.
const (
	StageRead     = "read"
	StageDetect   = "detect"
	StageAnnotate = "annotate"
	StageWrite    = "write"
)

// Job describes one video to process.
type Job struct {
	// Source is the input video path.
	Source string
	// Output is the annotated video path.
	Output string
	// CountsPath receives the per-frame counts CSV. Empty disables it.
	CountsPath string
	// FourCC overrides DefaultFourCC.
	FourCC string
}

// Summary reports a finished job.
type Summary struct {
	Frames int
	// InputFPS is the frame rate the output was written at.
	InputFPS      float64
	Width, Height int
	Elapsed       time.Duration
	// Interrupted is set when the context was cancelled before the video ended.
	Interrupted bool
	// Stages times each step of the frame loop.
	Stages *profiler.Profiler
}

// ProcessingFPS is the number of frames handled per second of wall time.
func (s *Summary) ProcessingFPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// Runner processes videos with one detector. Frames are handled sequentially.
type Runner struct {
	Detector detector.Detector
	// Names are the class names used for labels and count columns.
	Names []string
	Log   logs.Log
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

// Run reads job.Source frame by frame, writes each annotated frame to
// job.Output at the input frame rate and size, and tallies detections per
// class when job.CountsPath is set. Cancelling ctx stops after the current
// frame; the outputs written so far are kept.
func (r *Runner) Run(ctx context.Context, job Job) (*Summary, error) {
	capture, err := gocv.VideoCaptureFile(job.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open video: %s", job.Source)
	}
	defer capture.Close()
	if !capture.IsOpened() {
		return nil, errors.Errorf("cannot open video: %s", job.Source)
	}

	s := &Summary{
		InputFPS: capture.Get(gocv.VideoCaptureFPS),
		Width:    int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height:   int(capture.Get(gocv.VideoCaptureFrameHeight)),
		Stages:   profiler.New(),
	}
	if s.InputFPS <= 0 {
		s.InputFPS = counts.DefaultFPS
	}

	fourcc := job.FourCC
	if fourcc == "" {
		fourcc = DefaultFourCC
	}
	writer, err := gocv.VideoWriterFile(job.Output, fourcc, s.InputFPS, s.Width, s.Height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "creating video %s", job.Output)
	}
	defer writer.Close()

	var cw *counts.Writer
	if job.CountsPath != "" {
		if cw, err = counts.Create(job.CountsPath, r.Names); err != nil {
			return nil, err
		}
		defer func() {
			if cw != nil {
				cw.Close()
			}
		}()
	}

	if r.Log != nil {
		r.Log.Infof("Processing %v (%vx%v at %.2f fps)", job.Source, s.Width, s.Height, s.InputFPS)
	}
	bar := r.newBar(int(capture.Get(gocv.VideoCaptureFrameCount)))

	frame := gocv.NewMat()
	defer frame.Close()

	start := time.Now()
	for {
		if ctx.Err() != nil {
			s.Interrupted = true
			break
		}
		done := s.Stages.StartOperation(StageRead)
		ok := capture.Read(&frame)
		done()
		if !ok || frame.Empty() {
			break
		}

		done = s.Stages.StartOperation(StageDetect)
		dets, err := r.Detector.Detect(frame)
		done()
		if err != nil {
			return nil, errors.Wrapf(err, "detecting frame %d", s.Frames)
		}

		done = s.Stages.StartOperation(StageAnnotate)
		Annotate(&frame, dets, r.Names)
		done()

		done = s.Stages.StartOperation(StageWrite)
		err = writer.Write(frame)
		done()
		if err != nil {
			return nil, errors.Wrapf(err, "writing frame %d", s.Frames)
		}
		if cw != nil {
			if err := cw.Write(counts.Tally(s.Frames, s.InputFPS, postprocess.Classes(dets), len(r.Names))); err != nil {
				return nil, err
			}
		}

		s.Frames++
		if bar != nil {
			bar.Add(1)
		}
	}
	s.Elapsed = time.Since(start)
	if bar != nil {
		bar.Finish()
	}
	if r.Log != nil {
		s.Stages.Report(r.Log)
	}

	if cw != nil {
		err := cw.Close()
		cw = nil
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *Runner) newBar(total int) *progressbar.ProgressBar {
	if r.Progress == nil {
		return nil
	}
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][video][reset] Detecting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
