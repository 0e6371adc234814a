package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStepValidation   = errors.New("step validation failed")
	ErrMediaBudget      = errors.New("media budget exceeded")
	ErrMediaProcessing  = errors.New("media processing failed")
	ErrDurationExceeded = errors.New("video duration exceeded")
	ErrSubmission       = errors.New("submission failed")
	ErrConfiguration    = errors.New("configuration error")
	ErrNotFound         = errors.New("not found")
	ErrSessionBusy      = errors.New("session busy")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker so callers can classify the failure with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrSubmission
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint returns a short next-step suggestion for an error, used in CLI output and
// the error_hint log field.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrStepValidation):
		return "fill in the missing fields with 'listwise set' and retry"
	case errors.Is(err, ErrMediaBudget):
		return "remove images or choose smaller files"
	case errors.Is(err, ErrDurationExceeded):
		return "trim the video to 60 seconds or less"
	case errors.Is(err, ErrMediaProcessing):
		return "check the file is a readable image or video"
	case errors.Is(err, ErrSessionBusy):
		return "wait for the running upload on this session to finish"
	case errors.Is(err, ErrConfiguration):
		return "run 'listwise config validate'"
	case errors.Is(err, ErrNotFound):
		return "list open sessions with 'listwise sessions'"
	case errors.Is(err, ErrSubmission):
		return "the draft was kept; fix the reported problem and submit again"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
