package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"listwise/internal/listing"
	"listwise/internal/services"
	"listwise/internal/wizard"
)

// Create opens a new session on the first step. listingID is required for
// edit sessions and must be empty for create sessions.
func (s *Store) Create(ctx context.Context, mode Mode, listingID string, draft listing.Draft) (*Session, error) {
	switch mode {
	case ModeCreate:
		if listingID != "" {
			return nil, errors.New("create session cannot carry a listing id")
		}
	case ModeEdit:
		if strings.TrimSpace(listingID) == "" {
			return nil, errors.New("edit session requires a listing id")
		}
	default:
		return nil, fmt.Errorf("unknown session mode %q", mode)
	}

	draftJSON, err := encodeDraft(draft)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	timestamp := formatTime(time.Now())

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO wizard_sessions (
            id, mode, listing_id, active_step, draft_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		mode,
		nullableString(listingID),
		int(wizard.FirstStep),
		draftJSON,
		timestamp,
		timestamp,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, services.Wrap(services.ErrSessionBusy, "session", "create",
				fmt.Sprintf("listing %s already has an open edit session", listingID), nil)
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.Get(ctx, id)
}

// Get fetches a session by its full id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+sessionColumns+` FROM wizard_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "session", "get", fmt.Sprintf("no session %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Resolve finds a session by full id or unique id prefix. An empty ref
// resolves to the most recently updated session.
func (s *Store) Resolve(ctx context.Context, ref string) (*Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s.Latest(ctx)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM wizard_sessions WHERE id LIKE ? ORDER BY updated_at DESC LIMIT 2`,
		stripLikeWildcards(ref)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	matches, err := collect(rows)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "session", "resolve", fmt.Sprintf("no session matches %q", ref), nil)
	case 1:
		return matches[0], nil
	default:
		return nil, services.Wrap(services.ErrNotFound, "session", "resolve",
			fmt.Sprintf("%q matches more than one session; use a longer id", ref), nil)
	}
}

// Latest returns the most recently updated session.
func (s *Store) Latest(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM wizard_sessions ORDER BY updated_at DESC LIMIT 1`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "session", "latest", "no open sessions; start one with 'listwise new'", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// FindByListingID returns the open edit session for a listing, or nil.
func (s *Store) FindByListingID(ctx context.Context, listingID string) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM wizard_sessions WHERE listing_id = ?`, listingID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by listing id: %w", err)
	}
	return sess, nil
}

// List returns every open session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+sessionColumns+` FROM wizard_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return collect(rows)
}

// Update persists the draft, step, and last error of sess and bumps its
// updated_at timestamp.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	if !sess.Step.Valid() {
		return fmt.Errorf("session %s has invalid step %d", sess.ID, int(sess.Step))
	}
	draftJSON, err := encodeDraft(sess.Draft)
	if err != nil {
		return err
	}
	sess.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE wizard_sessions
         SET active_step = ?, draft_json = ?, video_seconds = ?, last_error = ?, updated_at = ?
         WHERE id = ?`,
		int(sess.Step),
		draftJSON,
		nullableFloat(sess.VideoSeconds),
		nullableString(sess.LastError),
		formatTime(sess.UpdatedAt),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "session", "update", fmt.Sprintf("no session %s", sess.ID), nil)
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.execWithRetry(ctx, `DELETE FROM wizard_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func collect(rows *sql.Rows) ([]*Session, error) {
	defer rows.Close()
	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func stripLikeWildcards(value string) string {
	replacer := strings.NewReplacer("%", "", "_", "")
	return replacer.Replace(value)
}
