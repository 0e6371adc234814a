package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listwise/internal/listing"
	"listwise/internal/wizard"
)

const sessionColumns = "id, mode, listing_id, active_step, draft_json, video_seconds, last_error, created_at, updated_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id           string
		mode         string
		listingID    sql.NullString
		activeStep   int
		draftJSON    string
		videoSeconds sql.NullFloat64
		lastError    sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&mode,
		&listingID,
		&activeStep,
		&draftJSON,
		&videoSeconds,
		&lastError,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	draft, err := listing.Hydrate([]byte(draftJSON))
	if err != nil {
		return nil, fmt.Errorf("hydrate draft for session %s: %w", id, err)
	}

	sess := &Session{
		ID:           id,
		Mode:         Mode(mode),
		ListingID:    listingID.String,
		Step:         wizard.Step(activeStep),
		Draft:        draft,
		VideoSeconds: videoSeconds.Float64,
		LastError:    lastError.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		sess.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		sess.UpdatedAt = updated
	}
	return sess, nil
}

func encodeDraft(d listing.Draft) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal draft: %w", err)
	}
	return string(payload), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

// timeLayout is fixed width so updated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
