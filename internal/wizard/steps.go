package wizard

import (
	"fmt"

	"listwise/internal/services"
)

// Step is a 1-based wizard step.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepPropertyDetails
	StepLocation
	StepPricingMedia
	StepReview
)

// FirstStep and LastStep bound the linear step sequence.
const (
	FirstStep = StepBasicInfo
	LastStep  = StepReview
)

var stepTitles = map[Step]string{
	StepBasicInfo:       "Basic Information",
	StepPropertyDetails: "Property Details",
	StepLocation:        "Location & Amenities",
	StepPricingMedia:    "Pricing & Media",
	StepReview:          "Review & Submit",
}

// Steps lists every step in order.
func Steps() []Step {
	return []Step{StepBasicInfo, StepPropertyDetails, StepLocation, StepPricingMedia, StepReview}
}

// Title returns the heading shown for the step.
func (s Step) Title() string {
	if title, ok := stepTitles[s]; ok {
		return title
	}
	return fmt.Sprintf("Step %d", int(s))
}

// Valid reports whether s is inside the sequence.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	return fmt.Sprintf("%d/%d %s", int(s), int(LastStep), s.Title())
}

// ValidationError is the single reason a step refused to advance.
type ValidationError struct {
	Step   Step
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap ties every validation failure to services.ErrStepValidation.
func (e *ValidationError) Unwrap() error {
	return services.ErrStepValidation
}

func reject(step Step, format string, args ...any) *ValidationError {
	return &ValidationError{Step: step, Reason: fmt.Sprintf(format, args...)}
}
