package wizard

import (
	"strings"

	"github.com/dustin/go-humanize"

	"listwise/internal/listing"
	"listwise/internal/media"
)

// DefaultMaxImageBytes is the aggregate image budget.
const DefaultMaxImageBytes = 5 * 1024 * 1024

// Limits are the media ceilings checked at the pricing and media step.
type Limits struct {
	MaxImages     int
	MaxImageBytes int64
}

// WithDefaults fills unset limits with the create-flow ceilings.
func (l Limits) WithDefaults() Limits {
	if l.MaxImages <= 0 {
		l.MaxImages = 6
	}
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = DefaultMaxImageBytes
	}
	return l
}

// Validate runs the rules of one step against the draft and returns the first
// failing rule as a *ValidationError, or nil.
func Validate(step Step, d listing.Draft, limits Limits) error {
	var err *ValidationError
	switch step {
	case StepBasicInfo:
		err = validateBasicInfo(d)
	case StepPropertyDetails:
		err = validatePropertyDetails(d)
	case StepLocation:
		err = validateLocation(d)
	case StepPricingMedia:
		err = validatePricingMedia(d, limits.WithDefaults())
	case StepReview:
	default:
		err = reject(step, "unknown step %d", int(step))
	}
	if err == nil {
		return nil
	}
	return err
}

// CanAdvance reports whether step passes and, if not, why.
func CanAdvance(step Step, d listing.Draft, limits Limits) (bool, string) {
	if err := Validate(step, d, limits); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateBasicInfo(d listing.Draft) *ValidationError {
	if blank(d.Name) || blank(string(d.PropertyType)) || blank(string(d.Type)) || blank(d.Description) {
		return reject(StepBasicInfo, "please fill in all required fields in Basic Information")
	}
	return nil
}

// Zero bedrooms or bathrooms block this step, even for land or commercial
// listings where zero is legitimate.
func validatePropertyDetails(d listing.Draft) *ValidationError {
	if d.Bedrooms.IsZero() || d.Bathrooms.IsZero() || d.TotalArea.IsZero() {
		return reject(StepPropertyDetails, "please fill in all required fields in Property Details")
	}
	for _, n := range []listing.Number{d.Bedrooms, d.Bathrooms, d.TotalArea, d.BuiltUpArea, d.FloorNumber, d.TotalFloors} {
		if n.Float() < 0 {
			return reject(StepPropertyDetails, "values in Property Details cannot be negative")
		}
	}
	return nil
}

func validateLocation(d listing.Draft) *ValidationError {
	if blank(d.Address) || !d.HasLocation() {
		return reject(StepLocation, "please fill in the address and pick the location in Location & Amenities")
	}
	return nil
}

func validatePricingMedia(d listing.Draft, limits Limits) *ValidationError {
	regular := d.RegularPrice.Float()
	if regular <= 0 {
		return reject(StepPricingMedia, "please enter a regular price greater than 0")
	}
	if d.Currency == listing.CurrencyCustom && blank(d.CustomCurrency) {
		return reject(StepPricingMedia, "please enter the custom currency code")
	}
	if d.MaintenanceFees.Float() < 0 || d.Deposit.Float() < 0 {
		return reject(StepPricingMedia, "values in Pricing & Media cannot be negative")
	}
	if d.Offer {
		discount := d.DiscountPrice.Float()
		if discount <= 0 {
			return reject(StepPricingMedia, "please enter a discount price for the offer")
		}
		if discount >= regular {
			return reject(StepPricingMedia, "discount price must be lower than regular price")
		}
	}
	if len(d.ImageURLs) < 1 {
		return reject(StepPricingMedia, "please upload at least one image")
	}
	if len(d.ImageURLs) > limits.MaxImages {
		return reject(StepPricingMedia, "you can upload at most %d images", limits.MaxImages)
	}
	if estimated := media.EstimateTotal(d.ImageURLs); estimated > float64(limits.MaxImageBytes) {
		return reject(StepPricingMedia, "images total about %s, over the %s limit",
			humanize.IBytes(uint64(estimated)), humanize.IBytes(uint64(limits.MaxImageBytes)))
	}
	return nil
}
