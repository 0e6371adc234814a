package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"listwise/internal/config"
	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/media"
	"listwise/internal/media/ffprobe"
	"listwise/internal/services"
	"listwise/internal/wizard"
)

// ImageProcessor turns one image file into an encoded fragment.
type ImageProcessor interface {
	Process(ctx context.Context, file media.File) (media.EncodedImage, error)
}

// VideoProcessor gates and encodes one video file.
type VideoProcessor interface {
	Process(ctx context.Context, file media.File) (media.EncodedVideo, error)
}

// Ingester applies media uploads to a draft. Every operation returns a new
// draft; the input draft is never modified, and a failed operation returns it
// unchanged.
type Ingester struct {
	images  ImageProcessor
	video   VideoProcessor
	rules   listing.Rules
	limits  wizard.Limits
	lockDir string
	logger  *slog.Logger
}

// New builds an Ingester from configuration for a create or edit session.
func New(cfg *config.Config, editing bool, logger *slog.Logger) *Ingester {
	maxImages := cfg.MaxImagesFor(editing)
	return NewWithDependencies(
		media.NewImageCompressor(cfg.Media.ImageMaxEdge, cfg.Media.ImageQuality),
		media.VideoValidator{
			MaxBytes:   cfg.VideoMaxBytes(),
			MaxSeconds: float64(cfg.Media.VideoMaxSeconds),
			Prober:     ffprobe.NewProber(cfg.Media.FFprobeBinary),
		},
		listing.Rules{Editing: editing, MaxImages: maxImages},
		wizard.Limits{MaxImages: maxImages, MaxImageBytes: cfg.MaxTotalImageBytes()},
		cfg.LockDir(),
		logger,
	)
}

// NewWithDependencies wires explicit processors, primarily for tests. An empty
// lockDir disables the session lock.
func NewWithDependencies(images ImageProcessor, video VideoProcessor, rules listing.Rules, limits wizard.Limits, lockDir string, logger *slog.Logger) *Ingester {
	return &Ingester{
		images:  images,
		video:   video,
		rules:   rules,
		limits:  limits.WithDefaults(),
		lockDir: lockDir,
		logger:  logging.NewComponentLogger(logger, "ingest"),
	}
}

// Limits returns the image ceilings the ingester enforces.
func (in *Ingester) Limits() wizard.Limits {
	return in.limits
}

// WithSessionLock runs fn while holding the upload lock of one session. The
// caller re-reads its draft and persists the result inside fn so two uploads
// on the same session never build on the same stale draft. A session that is
// already locked fails fast with services.ErrSessionBusy and fn is not run.
func (in *Ingester) WithSessionLock(ctx context.Context, sessionID string, fn func() error) error {
	logger := logging.WithContext(ctx, in.logger)

	lock, err := acquire(in.lockDir, sessionID)
	if err != nil {
		in.warn(logger, "upload refused", "session_busy", err)
		return err
	}
	defer in.releaseLock(logger, lock)
	return fn()
}

// AddImages checks the batch against the budget, compresses every file
// concurrently, and appends the fragments in input order once all of them
// succeeded. Encodes that already started are not cancelled when a sibling
// fails; the batch is dropped once they finish.
func (in *Ingester) AddImages(ctx context.Context, d listing.Draft, files []media.File) (listing.Draft, []media.EncodedImage, error) {
	logger := logging.WithContext(ctx, in.logger)

	if err := CheckImageBatch(d.ImageURLs, files, in.limits); err != nil {
		in.warn(logger, "image batch rejected", "image_batch_rejected", err,
			logging.Int("existing", len(d.ImageURLs)),
			logging.Int("incoming", len(files)),
		)
		return d, nil, err
	}

	start := time.Now()
	results := make([]media.EncodedImage, len(files))
	var group errgroup.Group
	for i, file := range files {
		group.Go(func() error {
			encoded, err := in.images.Process(ctx, file)
			if err != nil {
				return err
			}
			results[i] = encoded
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		in.warn(logger, "image batch failed", "image_batch_failed", err,
			logging.Int("incoming", len(files)),
		)
		return d, nil, err
	}

	urls := make([]string, len(results))
	for i, encoded := range results {
		urls[i] = encoded.DataURI
	}
	next, err := in.rules.Apply(d, listing.AppendImages{URLs: urls})
	if err != nil {
		wrapped := services.Wrap(services.ErrMediaBudget, "ingest", "append images", "", err)
		in.warn(logger, "image batch rejected", "image_batch_rejected", wrapped)
		return d, nil, wrapped
	}

	logger.Info("images added",
		logging.String(logging.FieldEventType, "images_added"),
		logging.Int("count", len(results)),
		logging.Int("total_images", len(next.ImageURLs)),
		logging.String("estimated_size", humanize.IBytes(uint64(media.EstimateTotal(next.ImageURLs)))),
		logging.Duration("elapsed", time.Since(start)),
	)
	return next, results, nil
}

// SetVideo validates and encodes file and sets it as the draft's video,
// replacing any previous one.
func (in *Ingester) SetVideo(ctx context.Context, d listing.Draft, file media.File) (listing.Draft, media.EncodedVideo, error) {
	logger := logging.WithContext(ctx, in.logger)

	encoded, err := in.video.Process(ctx, file)
	if err != nil {
		in.warn(logger, "video rejected", "video_rejected", err, logging.String("file", file.Name))
		return d, media.EncodedVideo{}, err
	}
	next, err := in.rules.Apply(d, listing.SetVideo{URL: encoded.DataURI})
	if err != nil {
		return d, media.EncodedVideo{}, services.Wrap(services.ErrMediaProcessing, "ingest", "set video", file.Name, err)
	}
	logger.Info("video set",
		logging.String(logging.FieldEventType, "video_set"),
		logging.String("file", file.Name),
		logging.Float64("duration_seconds", encoded.DurationSeconds),
		logging.String("size", humanize.IBytes(uint64(encoded.SourceBytes))),
	)
	return next, encoded, nil
}

// RemoveImage drops the image at index.
func (in *Ingester) RemoveImage(d listing.Draft, index int) (listing.Draft, error) {
	next, err := in.rules.Apply(d, listing.RemoveImage{Index: index})
	if err != nil {
		return d, services.Wrap(services.ErrNotFound, "ingest", "remove image", "", err)
	}
	return next, nil
}

// ClearVideo removes the draft's video.
func (in *Ingester) ClearVideo(d listing.Draft) listing.Draft {
	next, _ := in.rules.Apply(d, listing.ClearVideo{})
	return next
}

func (in *Ingester) warn(logger *slog.Logger, msg, eventType string, err error, attrs ...logging.Attr) {
	attrs = append(attrs,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
	)
	logging.WarnWithContext(logger, msg, eventType, attrs...)
}

func (in *Ingester) releaseLock(logger *slog.Logger, lock *sessionLock) {
	if err := lock.release(); err != nil {
		logger.Warn("failed to release session lock", logging.String("path", lock.path), logging.Error(err))
	}
}
