package listing

import (
	"strings"
)

// Payload is the flat JSON body sent to the create and update endpoints.
// Numbers are coerced, media is embedded as data URIs.
type Payload struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Address        string         `json:"address"`
	PropertyType   PropertyType   `json:"propertyType"`
	Type           ListingType    `json:"type"`
	PropertyStatus PropertyStatus `json:"propertyStatus"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`

	Bedrooms    float64    `json:"bedrooms"`
	Bathrooms   float64    `json:"bathrooms"`
	TotalArea   float64    `json:"totalArea"`
	BuiltUpArea float64    `json:"builtUpArea"`
	FloorNumber float64    `json:"floorNumber"`
	TotalFloors float64    `json:"totalFloors"`
	Furnished   bool       `json:"furnished"`
	Parking     bool       `json:"parking"`
	Furnishing  Furnishing `json:"furnishing"`
	Amenities   Amenities  `json:"amenities"`

	Currency         Currency         `json:"currency"`
	CustomCurrency   string           `json:"customCurrency"`
	RegularPrice     float64          `json:"regularPrice"`
	Offer            bool             `json:"offer"`
	DiscountPrice    float64          `json:"discountPrice"`
	MaintenanceFees  float64          `json:"maintenanceFees"`
	Deposit          float64          `json:"deposit"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency"`

	ImageURLs []string `json:"imageUrls"`
	VideoURL  string   `json:"videoUrl"`

	Status  Status `json:"status"`
	UserRef string `json:"userRef,omitempty"`
}

// Canonicalize turns a draft into the outgoing body: numeric fields are
// coerced, the discount is zeroed when no offer is made, the custom currency
// code is dropped unless the currency is custom, and status follows role.
func Canonicalize(d Draft, role, userRef string) Payload {
	d = d.Clone()
	p := Payload{
		Name:             strings.TrimSpace(d.Name),
		Description:      strings.TrimSpace(d.Description),
		Address:          strings.TrimSpace(d.Address),
		PropertyType:     d.PropertyType,
		Type:             d.Type,
		PropertyStatus:   d.PropertyStatus,
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Bedrooms:         d.Bedrooms.Float(),
		Bathrooms:        d.Bathrooms.Float(),
		TotalArea:        d.TotalArea.Float(),
		BuiltUpArea:      d.BuiltUpArea.Float(),
		FloorNumber:      d.FloorNumber.Float(),
		TotalFloors:      d.TotalFloors.Float(),
		Furnished:        d.Furnished,
		Parking:          d.Parking,
		Furnishing:       d.Furnishing,
		Amenities:        d.Amenities,
		Currency:         d.Currency,
		RegularPrice:     d.RegularPrice.Float(),
		Offer:            d.Offer,
		MaintenanceFees:  d.MaintenanceFees.Float(),
		Deposit:          d.Deposit.Float(),
		PaymentFrequency: d.PaymentFrequency,
		ImageURLs:        d.ImageURLs,
		VideoURL:         d.VideoURL,
		Status:           StatusFor(strings.ToLower(strings.TrimSpace(role))),
		UserRef:          strings.TrimSpace(userRef),
	}
	if d.Offer {
		p.DiscountPrice = d.DiscountPrice.Float()
	}
	if d.Currency == CurrencyCustom {
		p.CustomCurrency = strings.TrimSpace(d.CustomCurrency)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return p
}

// CurrencyCode returns the code shown next to prices.
func (d Draft) CurrencyCode() string {
	if d.Currency == CurrencyCustom {
		if code := strings.TrimSpace(d.CustomCurrency); code != "" {
			return strings.ToUpper(code)
		}
	}
	return string(d.Currency)
}
