package listing

// PropertyType is the kind of property being listed.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyRoom       PropertyType = "room"
	PropertyLand       PropertyType = "land"
	PropertyOffice     PropertyType = "office"
	PropertyVilla      PropertyType = "villa"
	PropertyCommercial PropertyType = "commercial"
	PropertyIndustrial PropertyType = "industrial"
)

// PropertyTypes lists every accepted PropertyType in display order.
var PropertyTypes = []PropertyType{
	PropertyApartment, PropertyHouse, PropertyRoom, PropertyLand,
	PropertyOffice, PropertyVilla, PropertyCommercial, PropertyIndustrial,
}

// ListingType is the transaction offered: rent, sale or lease.
type ListingType string

const (
	ListingRent  ListingType = "rent"
	ListingSale  ListingType = "sale"
	ListingLease ListingType = "lease"
)

var ListingTypes = []ListingType{ListingRent, ListingSale, ListingLease}

// PropertyStatus is the construction state of the property.
type PropertyStatus string

const (
	StatusReady             PropertyStatus = "ready"
	StatusUnderConstruction PropertyStatus = "underConstruction"
	StatusOffPlan           PropertyStatus = "offPlan"
)

var PropertyStatuses = []PropertyStatus{StatusReady, StatusUnderConstruction, StatusOffPlan}

type Furnishing string

const (
	Furnished     Furnishing = "furnished"
	SemiFurnished Furnishing = "semiFurnished"
	Unfurnished   Furnishing = "unfurnished"
)

var Furnishings = []Furnishing{Furnished, SemiFurnished, Unfurnished}

// Currency is a price currency. CurrencyCustom defers to Draft.CustomCurrency.
type Currency string

const (
	CurrencyNPR    Currency = "NPR"
	CurrencyUSD    Currency = "USD"
	CurrencyINR    Currency = "INR"
	CurrencyCustom Currency = "custom"
)

var Currencies = []Currency{CurrencyNPR, CurrencyUSD, CurrencyINR, CurrencyCustom}

type PaymentFrequency string

const (
	PaymentMonthly   PaymentFrequency = "monthly"
	PaymentQuarterly PaymentFrequency = "quarterly"
	PaymentYearly    PaymentFrequency = "yearly"
)

var PaymentFrequencies = []PaymentFrequency{PaymentMonthly, PaymentQuarterly, PaymentYearly}

// Status is the publication state derived at submission time.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

// RoleManager is the account role whose submissions are held as drafts.
const RoleManager = "manager"

// StatusFor derives the submission status from the submitting account's role.
func StatusFor(role string) Status {
	if role == RoleManager {
		return StatusDraft
	}
	return StatusActive
}

func (v PropertyType) Valid() bool     { return contains(PropertyTypes, v) }
func (v ListingType) Valid() bool      { return contains(ListingTypes, v) }
func (v PropertyStatus) Valid() bool   { return contains(PropertyStatuses, v) }
func (v Furnishing) Valid() bool       { return contains(Furnishings, v) }
func (v Currency) Valid() bool         { return contains(Currencies, v) }
func (v PaymentFrequency) Valid() bool { return contains(PaymentFrequencies, v) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// parseEnum matches raw case-insensitively against values so CLI input like
// "offplan" resolves to "offPlan".
func parseEnum[T ~string](values []T, raw string) (T, bool) {
	key := normalizeKey(raw)
	for _, candidate := range values {
		if normalizeKey(string(candidate)) == key {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
