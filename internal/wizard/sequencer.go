package wizard

import (
	"errors"
	"fmt"

	"listwise/internal/listing"
)

var (
	// ErrAtFirstStep is returned by Back on the first step.
	ErrAtFirstStep = errors.New("already at the first step")
	// ErrAtLastStep is returned by Next on the review step.
	ErrAtLastStep = errors.New("already at the review step; submit instead")
	// ErrNotAtReview is returned by Submit before the review step.
	ErrNotAtReview = errors.New("submit is only available from the review step")
)

// State is the position of a wizard session in the step sequence.
type State struct {
	Active Step
}

// Start returns the state of a freshly opened wizard.
func Start() State {
	return State{Active: FirstStep}
}

// Sequencer drives State through the steps, gating forward moves on the
// validator. Every method returns the input state unchanged on failure.
type Sequencer struct {
	Limits Limits
}

// CanAdvance reports whether the active step of s passes validation.
func (q Sequencer) CanAdvance(s State, d listing.Draft) (bool, string) {
	return CanAdvance(s.Active, d, q.Limits)
}

// Next moves to the following step when the active one validates.
func (q Sequencer) Next(s State, d listing.Draft) (State, error) {
	if !s.Active.Valid() {
		return s, fmt.Errorf("wizard: invalid step %d", int(s.Active))
	}
	if s.Active == LastStep {
		return s, ErrAtLastStep
	}
	if err := Validate(s.Active, d, q.Limits); err != nil {
		return s, err
	}
	return State{Active: s.Active + 1}, nil
}

// Back moves to the previous step without validating.
func (q Sequencer) Back(s State) (State, error) {
	if !s.Active.Valid() {
		return s, fmt.Errorf("wizard: invalid step %d", int(s.Active))
	}
	if s.Active == FirstStep {
		return s, ErrAtFirstStep
	}
	return State{Active: s.Active - 1}, nil
}

// Submit re-validates every step in order from the review step and returns the
// first failure. Stale drafts are caught here even if each step passed when it
// was left.
func (q Sequencer) Submit(s State, d listing.Draft) error {
	if s.Active != LastStep {
		return ErrNotAtReview
	}
	for _, step := range Steps() {
		if err := Validate(step, d, q.Limits); err != nil {
			return err
		}
	}
	return nil
}
