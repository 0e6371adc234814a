package ingest

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"listwise/internal/media"
	"listwise/internal/services"
	"listwise/internal/wizard"
)

// CheckImageBatch decides whether incoming files may be added to a draft that
// already holds existing fragments. It only looks at counts and file sizes, so
// no file is read before the batch is accepted.
//
// Existing fragments are estimated at 0.75 bytes per character; incoming files
// count at their size on disk, even though compression will shrink them.
func CheckImageBatch(existing []string, incoming []media.File, limits wizard.Limits) error {
	limits = limits.WithDefaults()
	if len(incoming) == 0 {
		return services.Wrap(services.ErrMediaProcessing, "ingest", "check batch", "no images selected", nil)
	}
	for _, file := range incoming {
		if file.IsVideo() {
			return services.Wrap(services.ErrMediaProcessing, "ingest", "check batch",
				fmt.Sprintf("%s is a video; use the video upload instead", file.Name), nil)
		}
	}

	if total := len(existing) + len(incoming); total > limits.MaxImages {
		return services.Wrap(services.ErrMediaBudget, "ingest", "check batch",
			fmt.Sprintf("you can upload at most %d images (%d already attached, %d selected)",
				limits.MaxImages, len(existing), len(incoming)), nil)
	}

	estimated := media.EstimateTotal(existing)
	for _, file := range incoming {
		estimated += float64(file.Size)
	}
	if estimated > float64(limits.MaxImageBytes) {
		return services.Wrap(services.ErrMediaBudget, "ingest", "check batch",
			fmt.Sprintf("images would total about %s, over the %s limit",
				humanize.IBytes(uint64(estimated)), humanize.IBytes(uint64(limits.MaxImageBytes))), nil)
	}
	return nil
}
