package listing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField is returned for SetField keys the draft does not carry.
	ErrUnknownField = errors.New("unknown listing field")
	// ErrInvalidValue is returned when a value does not fit the field.
	ErrInvalidValue = errors.New("invalid listing value")
	// ErrImmutableField is returned when an edit session tries to change the address.
	ErrImmutableField = errors.New("field cannot be changed while editing")
	// ErrImageLimit is returned when appending would exceed the image cap.
	ErrImageLimit = errors.New("image limit reached")
)

// Event is a single draft mutation. Events are applied with Rules.Apply.
type Event interface {
	apply(r Rules, d *Draft) error
}

// Rules carries the per-session constraints events are checked against.
type Rules struct {
	// Editing marks an edit session, in which the address is locked.
	Editing bool
	// MaxImages caps ImageURLs; 0 disables the cap.
	MaxImages int
}

// Apply returns the draft produced by e. A rejected event returns the input
// draft unchanged alongside the error; the input is never mutated.
func (r Rules) Apply(d Draft, e Event) (Draft, error) {
	if e == nil {
		return d, nil
	}
	next := d.Clone()
	if err := e.apply(r, &next); err != nil {
		return d, err
	}
	return next, nil
}

// ApplyAll applies events in order, stopping at the first rejection.
func (r Rules) ApplyAll(d Draft, events ...Event) (Draft, error) {
	current := d
	for _, e := range events {
		next, err := r.Apply(current, e)
		if err != nil {
			return d, err
		}
		current = next
	}
	return current, nil
}

// SetField assigns a scalar field from raw text, the way a form input would.
type SetField struct {
	Key   string
	Value string
}

// SetLocation pins both coordinates at once.
type SetLocation struct {
	Latitude  float64
	Longitude float64
}

// ClearLocation removes both coordinates.
type ClearLocation struct{}

type SetAmenity struct {
	Key string
	On  bool
}

// AppendImages adds encoded image fragments to the end of ImageURLs.
type AppendImages struct {
	URLs []string
}

// RemoveImage drops the fragment at Index.
type RemoveImage struct {
	Index int
}

type SetVideo struct {
	URL string
}

type ClearVideo struct{}

func (e SetField) apply(r Rules, d *Draft) error {
	key := normalizeKey(e.Key)
	value := e.Value
	switch key {
	case "name":
		d.Name = value
	case "description":
		d.Description = value
	case "address":
		if r.Editing {
			return fmt.Errorf("%w: address", ErrImmutableField)
		}
		d.Address = value
	case "customcurrency":
		d.CustomCurrency = strings.TrimSpace(value)
	case "propertytype":
		return setEnum(&d.PropertyType, PropertyTypes, e.Key, value)
	case "type":
		return setEnum(&d.Type, ListingTypes, e.Key, value)
	case "propertystatus":
		return setEnum(&d.PropertyStatus, PropertyStatuses, e.Key, value)
	case "furnishing":
		return setEnum(&d.Furnishing, Furnishings, e.Key, value)
	case "currency":
		return setEnum(&d.Currency, Currencies, e.Key, value)
	case "paymentfrequency":
		return setEnum(&d.PaymentFrequency, PaymentFrequencies, e.Key, value)
	case "furnished":
		return setBool(&d.Furnished, e.Key, value)
	case "parking":
		return setBool(&d.Parking, e.Key, value)
	case "offer":
		return setBool(&d.Offer, e.Key, value)
	case "latitude", "longitude":
		return fmt.Errorf("%w: %s must be set together with its pair via SetLocation", ErrInvalidValue, e.Key)
	default:
		if ptr := d.numberField(key); ptr != nil {
			*ptr = Number(strings.TrimSpace(value))
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownField, e.Key)
	}
	return nil
}

func (d *Draft) numberField(key string) *Number {
	switch key {
	case "bedrooms":
		return &d.Bedrooms
	case "bathrooms":
		return &d.Bathrooms
	case "totalarea":
		return &d.TotalArea
	case "builtuparea":
		return &d.BuiltUpArea
	case "floornumber":
		return &d.FloorNumber
	case "totalfloors":
		return &d.TotalFloors
	case "regularprice":
		return &d.RegularPrice
	case "discountprice":
		return &d.DiscountPrice
	case "maintenancefees":
		return &d.MaintenanceFees
	case "deposit":
		return &d.Deposit
	default:
		return nil
	}
}

func (e SetLocation) apply(_ Rules, d *Draft) error {
	if math.IsNaN(e.Latitude) || e.Latitude < -90 || e.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidValue, e.Latitude)
	}
	if math.IsNaN(e.Longitude) || e.Longitude < -180 || e.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidValue, e.Longitude)
	}
	lat, lng := e.Latitude, e.Longitude
	d.Latitude, d.Longitude = &lat, &lng
	return nil
}

func (ClearLocation) apply(_ Rules, d *Draft) error {
	d.Latitude, d.Longitude = nil, nil
	return nil
}

func (e SetAmenity) apply(_ Rules, d *Draft) error {
	ptr, ok := d.Amenities.field(e.Key)
	if !ok {
		return fmt.Errorf("%w: amenity %q", ErrUnknownField, e.Key)
	}
	*ptr = e.On
	return nil
}

func (e AppendImages) apply(r Rules, d *Draft) error {
	if r.MaxImages > 0 && len(d.ImageURLs)+len(e.URLs) > r.MaxImages {
		return fmt.Errorf("%w: %d existing + %d new exceeds %d", ErrImageLimit, len(d.ImageURLs), len(e.URLs), r.MaxImages)
	}
	for _, url := range e.URLs {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("%w: empty image fragment", ErrInvalidValue)
		}
	}
	d.ImageURLs = append(d.ImageURLs, e.URLs...)
	return nil
}

func (e RemoveImage) apply(_ Rules, d *Draft) error {
	if e.Index < 0 || e.Index >= len(d.ImageURLs) {
		return fmt.Errorf("%w: image index %d (have %d)", ErrInvalidValue, e.Index, len(d.ImageURLs))
	}
	d.ImageURLs = append(d.ImageURLs[:e.Index], d.ImageURLs[e.Index+1:]...)
	return nil
}

func (e SetVideo) apply(_ Rules, d *Draft) error {
	if strings.TrimSpace(e.URL) == "" {
		return fmt.Errorf("%w: empty video fragment", ErrInvalidValue)
	}
	d.VideoURL = e.URL
	return nil
}

func (ClearVideo) apply(_ Rules, d *Draft) error {
	d.VideoURL = ""
	return nil
}

func setEnum[T ~string](dst *T, values []T, key, raw string) error {
	v, ok := parseEnum(values, raw)
	if !ok {
		return fmt.Errorf("%w: %s=%q (want one of %s)", ErrInvalidValue, key, raw, joinValues(values))
	}
	*dst = v
	return nil
}

func setBool(dst *bool, key, raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "on", "y":
		*dst = true
		return nil
	case "no", "off", "n", "":
		*dst = false
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, key, raw)
	}
	*dst = v
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
