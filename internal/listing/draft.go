package listing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Amenities is the fixed set of amenity toggles a listing can advertise.
type Amenities struct {
	Balcony         bool `json:"balcony"`
	Pool            bool `json:"pool"`
	Gym             bool `json:"gym"`
	Garden          bool `json:"garden"`
	Security        bool `json:"security"`
	Elevator        bool `json:"elevator"`
	WaterSupply     bool `json:"waterSupply"`
	PowerBackup     bool `json:"powerBackup"`
	Internet        bool `json:"internet"`
	AirConditioning bool `json:"airConditioning"`
}

// AmenityKeys lists the amenity keys in display order.
var AmenityKeys = []string{
	"balcony", "pool", "gym", "garden", "security",
	"elevator", "waterSupply", "powerBackup", "internet", "airConditioning",
}

func (a *Amenities) field(key string) (*bool, bool) {
	switch normalizeKey(key) {
	case "balcony":
		return &a.Balcony, true
	case "pool":
		return &a.Pool, true
	case "gym":
		return &a.Gym, true
	case "garden":
		return &a.Garden, true
	case "security":
		return &a.Security, true
	case "elevator":
		return &a.Elevator, true
	case "watersupply":
		return &a.WaterSupply, true
	case "powerbackup":
		return &a.PowerBackup, true
	case "internet":
		return &a.Internet, true
	case "airconditioning":
		return &a.AirConditioning, true
	default:
		return nil, false
	}
}

// Get reports the amenity value for key and whether key is known.
func (a Amenities) Get(key string) (bool, bool) {
	ptr, ok := a.field(key)
	if !ok {
		return false, false
	}
	return *ptr, true
}

// Enabled returns the keys of every amenity switched on, in display order.
func (a Amenities) Enabled() []string {
	var keys []string
	for _, key := range AmenityKeys {
		if on, _ := a.Get(key); on {
			keys = append(keys, key)
		}
	}
	return keys
}

// Draft is every wizard-collected field of a listing prior to submission.
// Numeric fields hold raw input; see Number.
type Draft struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Address        string         `json:"address"`
	PropertyType   PropertyType   `json:"propertyType"`
	Type           ListingType    `json:"type"`
	PropertyStatus PropertyStatus `json:"propertyStatus"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Bedrooms    Number     `json:"bedrooms"`
	Bathrooms   Number     `json:"bathrooms"`
	TotalArea   Number     `json:"totalArea"`
	BuiltUpArea Number     `json:"builtUpArea"`
	FloorNumber Number     `json:"floorNumber"`
	TotalFloors Number     `json:"totalFloors"`
	Furnished   bool       `json:"furnished"`
	Parking     bool       `json:"parking"`
	Furnishing  Furnishing `json:"furnishing"`
	Amenities   Amenities  `json:"amenities"`

	Currency         Currency         `json:"currency"`
	CustomCurrency   string           `json:"customCurrency"`
	RegularPrice     Number           `json:"regularPrice"`
	Offer            bool             `json:"offer"`
	DiscountPrice    Number           `json:"discountPrice"`
	MaintenanceFees  Number           `json:"maintenanceFees"`
	Deposit          Number           `json:"deposit"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency"`

	ImageURLs []string `json:"imageUrls"`
	VideoURL  string   `json:"videoUrl"`
}

// New returns an empty draft with every default applied.
func New() Draft {
	return Draft{
		PropertyType:     PropertyApartment,
		Type:             ListingRent,
		PropertyStatus:   StatusReady,
		Bedrooms:         "0",
		Bathrooms:        "0",
		TotalArea:        "0",
		BuiltUpArea:      "0",
		FloorNumber:      "0",
		TotalFloors:      "0",
		Furnishing:       Unfurnished,
		Currency:         CurrencyNPR,
		RegularPrice:     "0",
		DiscountPrice:    "0",
		MaintenanceFees:  "0",
		Deposit:          "0",
		PaymentFrequency: PaymentMonthly,
		ImageURLs:        []string{},
	}
}

// Clone returns a deep copy so transitions never share slices or pointers.
func (d Draft) Clone() Draft {
	out := d
	out.ImageURLs = append([]string{}, d.ImageURLs...)
	if d.Latitude != nil {
		lat := *d.Latitude
		out.Latitude = &lat
	}
	if d.Longitude != nil {
		lng := *d.Longitude
		out.Longitude = &lng
	}
	return out
}

// HasLocation reports whether both coordinates are set.
func (d Draft) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// Hydrate decodes a stored listing into a draft, back-filling any field the
// record lacks with the defaults of New. Unknown fields such as _id, status
// and userRef are ignored.
func Hydrate(raw []byte) (Draft, error) {
	draft := New()
	if err := json.Unmarshal(raw, &draft); err != nil {
		return Draft{}, fmt.Errorf("decode listing: %w", err)
	}
	draft.backfill()
	return draft, nil
}

func (d *Draft) backfill() {
	defaults := New()
	d.PropertyType = canonical(PropertyTypes, d.PropertyType, defaults.PropertyType)
	d.Type = canonical(ListingTypes, d.Type, defaults.Type)
	d.PropertyStatus = canonical(PropertyStatuses, d.PropertyStatus, defaults.PropertyStatus)
	d.Furnishing = canonical(Furnishings, d.Furnishing, defaults.Furnishing)
	d.Currency = canonical(Currencies, d.Currency, defaults.Currency)
	d.PaymentFrequency = canonical(PaymentFrequencies, d.PaymentFrequency, defaults.PaymentFrequency)
	for _, n := range []*Number{
		&d.Bedrooms, &d.Bathrooms, &d.TotalArea, &d.BuiltUpArea, &d.FloorNumber,
		&d.TotalFloors, &d.RegularPrice, &d.DiscountPrice, &d.MaintenanceFees, &d.Deposit,
	} {
		if strings.TrimSpace(string(*n)) == "" {
			*n = "0"
		}
	}
	if d.ImageURLs == nil {
		d.ImageURLs = []string{}
	}
	if d.Latitude == nil || d.Longitude == nil {
		d.Latitude, d.Longitude = nil, nil
	}
}

func canonical[T ~string](values []T, v T, fallback T) T {
	if c, ok := parseEnum(values, string(v)); ok {
		return c
	}
	return fallback
}

// normalizeKey folds case and drops separators so "water_supply",
// "water-supply" and "waterSupply" compare equal.
func normalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.TrimSpace(key) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteString(strings.ToLower(string(r)))
	}
	return b.String()
}
