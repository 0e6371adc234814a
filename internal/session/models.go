package session

import (
	"time"

	"listwise/internal/listing"
	"listwise/internal/wizard"
)

// Mode distinguishes a brand new listing from an edit of a published one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Session is one open wizard: the draft being built, where the user is in the
// step sequence, and the outcome of the last failed submission.
type Session struct {
	ID        string
	Mode      Mode
	ListingID string
	Step      wizard.Step
	Draft     listing.Draft
	// VideoSeconds is the probed duration of the attached video, 0 when the
	// video was hydrated from the server and never probed locally.
	VideoSeconds float64
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Editing reports whether the session edits an existing listing.
func (s *Session) Editing() bool {
	return s != nil && s.Mode == ModeEdit
}

// State returns the wizard position of the session.
func (s *Session) State() wizard.State {
	return wizard.State{Active: s.Step}
}

// ShortID returns the first eight characters of the id, enough to address a
// session on the command line.
func (s *Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}
