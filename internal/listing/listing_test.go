package listing_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"listwise/internal/listing"
)

func TestNumberFloatCoercion(t *testing.T) {
	tests := []struct {
		raw  listing.Number
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"12", 12},
		{" 12.5 ", 12.5},
		{"-3", -3},
		{".5", 0.5},
		{"1e3", 1000},
		{"0x10", 16},
		{"0b101", 5},
		{"0x1p-2", 0},
		{"-0x1p-2", 0},
		{"0X1P4", 0},
		{"12abc", 0},
		{"abc", 0},
		{"1_000", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"-0", 0},
	}
	for _, tt := range tests {
		if got := tt.raw.Float(); got != tt.want {
			t.Errorf("Number(%q).Float() = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNumberValidRefusesHexFloats(t *testing.T) {
	for _, raw := range []listing.Number{"0x1p-2", "0x1.8p1", "-0x1p0"} {
		if raw.Valid() {
			t.Errorf("Number(%q).Valid() = true, want false", raw)
		}
	}
	for _, raw := range []listing.Number{"0x10", "2.5e3", ""} {
		if !raw.Valid() {
			t.Errorf("Number(%q).Valid() = false, want true", raw)
		}
	}
}

func TestNumberJSONAcceptsNumbersAndStrings(t *testing.T) {
	var values struct {
		A listing.Number `json:"a"`
		B listing.Number `json:"b"`
		C listing.Number `json:"c"`
		D listing.Number `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1500.25, "b": "3", "c": null, "d": true}`), &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if values.A.Float() != 1500.25 || values.B.Float() != 3 || values.C != "" || values.D.Float() != 1 {
		t.Fatalf("unexpected decode %+v", values)
	}
}

func TestNewDraftDefaults(t *testing.T) {
	d := listing.New()
	if d.PropertyType != listing.PropertyApartment || d.Type != listing.ListingRent || d.PropertyStatus != listing.StatusReady {
		t.Fatalf("unexpected enum defaults %+v", d)
	}
	if d.Furnishing != listing.Unfurnished || d.Currency != listing.CurrencyNPR || d.PaymentFrequency != listing.PaymentMonthly {
		t.Fatalf("unexpected pricing defaults %+v", d)
	}
	if d.HasLocation() || len(d.ImageURLs) != 0 || d.VideoURL != "" {
		t.Fatalf("expected empty media and location")
	}
	if !d.Bedrooms.IsZero() || !d.RegularPrice.IsZero() {
		t.Fatalf("expected zero numbers")
	}
}

func TestHydrateBackfillsMissingFields(t *testing.T) {
	raw := []byte(`{
		"_id": "66a1",
		"userRef": "u1",
		"status": "active",
		"name": "Lakeside flat",
		"propertyType": "villa",
		"propertyStatus": "UnderConstruction",
		"bedrooms": 3,
		"regularPrice": "25000",
		"latitude": 27.7,
		"imageUrls": null,
		"amenities": {"pool": true}
	}`)
	d, err := listing.Hydrate(raw)
	if err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if d.Name != "Lakeside flat" || d.PropertyType != listing.PropertyVilla {
		t.Fatalf("expected stored values kept, got %+v", d)
	}
	if d.PropertyStatus != listing.StatusUnderConstruction {
		t.Fatalf("expected status canonicalized, got %q", d.PropertyStatus)
	}
	if d.Type != listing.ListingRent || d.Currency != listing.CurrencyNPR || d.Furnishing != listing.Unfurnished {
		t.Fatalf("expected defaults back-filled, got %+v", d)
	}
	if d.Bedrooms.Float() != 3 || d.RegularPrice.Float() != 25000 || d.Deposit != "0" {
		t.Fatalf("unexpected numbers %+v", d)
	}
	if d.ImageURLs == nil {
		t.Fatal("expected empty image list instead of nil")
	}
	if d.HasLocation() || d.Latitude != nil {
		t.Fatal("expected half-set location to be dropped")
	}
	if on, _ := d.Amenities.Get("pool"); !on {
		t.Fatal("expected pool amenity to survive hydration")
	}
}

func TestHydrateRejectsMalformedJSON(t *testing.T) {
	if _, err := listing.Hydrate([]byte(`{"name":`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rules := listing.Rules{MaxImages: 3}
	base := listing.New()
	base.ImageURLs = []string{"data:image/jpeg;base64,AAA"}

	next, err := rules.ApplyAll(base,
		listing.SetField{Key: "name", Value: "Garden house"},
		listing.SetField{Key: "property_type", Value: "House"},
		listing.SetLocation{Latitude: 27.71, Longitude: 85.32},
		listing.AppendImages{URLs: []string{"data:image/jpeg;base64,BBB"}},
		listing.SetAmenity{Key: "water-supply", On: true},
	)
	if err != nil {
		t.Fatalf("ApplyAll returned error: %v", err)
	}
	if base.Name != "" || len(base.ImageURLs) != 1 || base.HasLocation() {
		t.Fatalf("input draft was mutated: %+v", base)
	}
	if next.Name != "Garden house" || next.PropertyType != listing.PropertyHouse {
		t.Fatalf("unexpected next draft %+v", next)
	}
	if len(next.ImageURLs) != 2 || !next.HasLocation() || !next.Amenities.WaterSupply {
		t.Fatalf("unexpected next draft %+v", next)
	}
}

func TestApplyRejectionsLeaveDraftUnchanged(t *testing.T) {
	base := listing.New()
	base.Address = "Lazimpat, Kathmandu"
	base.ImageURLs = []string{"a", "b"}

	tests := []struct {
		name  string
		rules listing.Rules
		event listing.Event
		want  error
	}{
		{"unknown field", listing.Rules{}, listing.SetField{Key: "garage", Value: "1"}, listing.ErrUnknownField},
		{"bad enum", listing.Rules{}, listing.SetField{Key: "currency", Value: "EUR"}, listing.ErrInvalidValue},
		{"bad bool", listing.Rules{}, listing.SetField{Key: "offer", Value: "maybe"}, listing.ErrInvalidValue},
		{"lone coordinate", listing.Rules{}, listing.SetField{Key: "latitude", Value: "27"}, listing.ErrInvalidValue},
		{"latitude range", listing.Rules{}, listing.SetLocation{Latitude: 91, Longitude: 0}, listing.ErrInvalidValue},
		{"address locked", listing.Rules{Editing: true}, listing.SetField{Key: "address", Value: "elsewhere"}, listing.ErrImmutableField},
		{"image cap", listing.Rules{MaxImages: 3}, listing.AppendImages{URLs: []string{"c", "d"}}, listing.ErrImageLimit},
		{"remove out of range", listing.Rules{}, listing.RemoveImage{Index: 5}, listing.ErrInvalidValue},
		{"unknown amenity", listing.Rules{}, listing.SetAmenity{Key: "helipad", On: true}, listing.ErrUnknownField},
		{"empty video", listing.Rules{}, listing.SetVideo{URL: " "}, listing.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rules.Apply(base, tt.event)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got.Address != base.Address || len(got.ImageURLs) != 2 {
				t.Fatalf("rejected event changed draft: %+v", got)
			}
		})
	}
}

func TestImageCountNeverExceedsCap(t *testing.T) {
	rules := listing.Rules{MaxImages: 5}
	d := listing.New()
	ops := []listing.Event{
		listing.AppendImages{URLs: []string{"1", "2", "3"}},
		listing.AppendImages{URLs: []string{"4", "5", "6"}},
		listing.RemoveImage{Index: 0},
		listing.AppendImages{URLs: []string{"4", "5"}},
		listing.AppendImages{URLs: []string{"6"}},
		listing.RemoveImage{Index: 9},
		listing.AppendImages{URLs: []string{"7"}},
	}
	for i, op := range ops {
		d, _ = rules.Apply(d, op)
		if len(d.ImageURLs) > rules.MaxImages {
			t.Fatalf("after op %d: %d images exceeds cap", i, len(d.ImageURLs))
		}
	}
	if strings.Join(d.ImageURLs, ",") != "2,3,4,5,6" {
		t.Fatalf("unexpected image order %v", d.ImageURLs)
	}
}

func TestVideoAndLocationClearing(t *testing.T) {
	rules := listing.Rules{}
	d, err := rules.ApplyAll(listing.New(),
		listing.SetVideo{URL: "data:video/mp4;base64,AA=="},
		listing.SetLocation{Latitude: 1, Longitude: 2},
		listing.ClearVideo{},
		listing.ClearLocation{},
	)
	if err != nil {
		t.Fatalf("ApplyAll returned error: %v", err)
	}
	if d.VideoURL != "" || d.Latitude != nil || d.Longitude != nil {
		t.Fatalf("expected cleared media and location, got %+v", d)
	}
}
