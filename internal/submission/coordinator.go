package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"listwise/internal/api"
	"listwise/internal/config"
	"listwise/internal/listing"
	"listwise/internal/logging"
	"listwise/internal/services"
	"listwise/internal/wizard"
)

// Request is one submit attempt. An empty ListingID creates a listing; any
// other value updates that listing.
type Request struct {
	State     wizard.State
	Draft     listing.Draft
	ListingID string
}

// Editing reports whether the request updates an existing listing.
func (r Request) Editing() bool {
	return strings.TrimSpace(r.ListingID) != ""
}

// Outcome is a successful submission.
type Outcome struct {
	ListingID string
	// Path is where the client navigates next.
	Path    string
	Created bool
	Status  listing.Status
}

// Coordinator turns a reviewed draft into a stored listing.
type Coordinator struct {
	client        api.Listings
	role          string
	userRef       string
	maxImages     int
	maxImagesEdit int
	maxImageBytes int64
	logger        *slog.Logger
}

// New builds a coordinator that submits through client on behalf of the
// configured account.
func New(client api.Listings, cfg *config.Config, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		client:        client,
		role:          cfg.Account.Role,
		userRef:       cfg.Account.UserID,
		maxImages:     cfg.MaxImagesFor(false),
		maxImagesEdit: cfg.MaxImagesFor(true),
		maxImageBytes: cfg.MaxTotalImageBytes(),
		logger:        logging.NewComponentLogger(logger, "submission"),
	}
}

// Limits returns the step limits that apply to the create or edit flow.
func (c *Coordinator) Limits(editing bool) wizard.Limits {
	maxImages := c.maxImages
	if editing {
		maxImages = c.maxImagesEdit
	}
	return wizard.Limits{MaxImages: maxImages, MaxImageBytes: c.maxImageBytes}.WithDefaults()
}

// Submit re-validates every step, canonicalizes the draft, checks it against
// the API contract, and sends it. The draft is never modified; on failure the
// caller keeps it and may submit again.
func (c *Coordinator) Submit(ctx context.Context, req Request) (Outcome, error) {
	logger := logging.WithContext(ctx, c.logger)
	operation := "create"
	if req.Editing() {
		operation = "update"
	}

	seq := wizard.Sequencer{Limits: c.Limits(req.Editing())}
	if err := seq.Submit(req.State, req.Draft); err != nil {
		attrs := []logging.Attr{
			logging.String("operation", operation),
			logging.String("reason", err.Error()),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		}
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			attrs = append(attrs, logging.String("failed_step", verr.Step.Title()))
		}
		logging.WarnWithContext(logger, "submission blocked by validation", "submission_invalid", attrs...)
		return Outcome{}, err
	}

	payload := listing.Canonicalize(req.Draft, c.role, c.userRef)
	if err := api.ValidatePayload(payload); err != nil {
		c.warnFailure(logger, operation, err)
		return Outcome{}, err
	}

	start := time.Now()
	var (
		result api.Result
		err    error
	)
	if req.Editing() {
		result, err = c.client.Update(ctx, req.ListingID, payload)
	} else {
		result, err = c.client.Create(ctx, payload)
	}
	if err != nil {
		if !errors.Is(err, services.ErrSubmission) {
			err = services.Wrap(services.ErrSubmission, "submission", operation, "", err)
		}
		c.warnFailure(logger, operation, err)
		return Outcome{}, err
	}

	outcome := Outcome{
		ListingID: result.ID,
		Path:      "/listing/" + result.ID,
		Created:   !req.Editing(),
		Status:    payload.Status,
	}
	logger.Info("listing submitted",
		logging.String(logging.FieldEventType, "listing_submitted"),
		logging.String("operation", operation),
		logging.String("listing_id", outcome.ListingID),
		logging.String("status", string(outcome.Status)),
		logging.Int("images", len(payload.ImageURLs)),
		logging.Bool("video", payload.VideoURL != ""),
		logging.Duration("elapsed", time.Since(start)),
	)
	return outcome, nil
}

func (c *Coordinator) warnFailure(logger *slog.Logger, operation string, err error) {
	logging.WarnWithContext(logger, "submission failed", "submission_failed",
		logging.String("operation", operation),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
		logging.String(logging.FieldImpact, "draft kept for another attempt"),
	)
}
