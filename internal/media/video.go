package media

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"listwise/internal/services"
)

const (
	DefaultVideoMaxBytes   = 50 * 1024 * 1024
	DefaultVideoMaxSeconds = 60
)

// DurationProber reads a video's playback length from container metadata.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// EncodedVideo is an accepted listing video ready to embed in a payload.
type EncodedVideo struct {
	DataURI         string
	DurationSeconds float64
	SourceName      string
	SourceBytes     int64
}

// VideoValidator gates a video on size and duration and encodes it once both
// checks pass.
type VideoValidator struct {
	MaxBytes   int64
	MaxSeconds float64
	Prober     DurationProber
}

// Process checks size first without touching the file contents, then probes
// the duration, and only then reads and encodes the file. The probe has no
// deadline of its own; it ends when ffprobe exits or ctx is cancelled.
func (v VideoValidator) Process(ctx context.Context, file File) (EncodedVideo, error) {
	maxBytes := v.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultVideoMaxBytes
	}
	maxSeconds := v.MaxSeconds
	if maxSeconds <= 0 {
		maxSeconds = DefaultVideoMaxSeconds
	}

	if file.Size > maxBytes {
		return EncodedVideo{}, services.Wrap(services.ErrMediaBudget, "media", "validate video",
			fmt.Sprintf("%s is %s, limit is %s", file.Name, humanize.IBytes(uint64(file.Size)), humanize.IBytes(uint64(maxBytes))), nil)
	}
	if !file.IsVideo() {
		return EncodedVideo{}, services.Wrap(services.ErrMediaProcessing, "media", "validate video",
			fmt.Sprintf("%s is %s, not a video", file.Name, file.MIMEType), nil)
	}
	if v.Prober == nil {
		return EncodedVideo{}, services.Wrap(services.ErrConfiguration, "media", "validate video", "no duration prober configured", nil)
	}

	duration, err := v.Prober.ProbeDuration(ctx, file.Path)
	if err != nil {
		return EncodedVideo{}, services.Wrap(services.ErrMediaProcessing, "media", "probe video", file.Name, err)
	}
	if duration > maxSeconds {
		return EncodedVideo{}, services.Wrap(services.ErrDurationExceeded, "media", "validate video",
			fmt.Sprintf("%s runs %.1fs, limit is %.0fs", file.Name, duration, maxSeconds), nil)
	}

	payload, err := readAll(file, "encode video")
	if err != nil {
		return EncodedVideo{}, err
	}
	return EncodedVideo{
		DataURI:         DataURI(file.MIMEType, payload),
		DurationSeconds: duration,
		SourceName:      file.Name,
		SourceBytes:     int64(len(payload)),
	}, nil
}
