package listing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const geohashPrecision = 9

// Label renders an enum or amenity key for display: "underConstruction"
// becomes "Under Construction".
func Label(value string) string {
	var words []string
	var current []rune
	for _, r := range value {
		if (unicode.IsUpper(r) || r == '_' || r == '-' || r == ' ') && len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	caser := cases.Title(language.English)
	return caser.String(strings.Join(words, " "))
}

// Geohash returns the 9-character geohash of the pinned location, or "" when
// no location is set.
func (d Draft) Geohash() string {
	if !d.HasLocation() {
		return ""
	}
	return geohash.EncodeWithPrecision(*d.Latitude, *d.Longitude, geohashPrecision)
}

// Row is a single label/value pair of the review summary.
type Row struct {
	Label string
	Value string
}

// Section groups review rows under a wizard step heading.
type Section struct {
	Title string
	Rows  []Row
}

// Review summarizes the draft for the final wizard step. Media fragments are
// reported by count and estimated size, never inline.
func Review(d Draft, estimate func([]string) float64) []Section {
	location := "not set"
	if d.HasLocation() {
		location = fmt.Sprintf("%.6f, %.6f (geohash %s)", *d.Latitude, *d.Longitude, d.Geohash())
	}
	amenities := "none"
	if enabled := d.Amenities.Enabled(); len(enabled) > 0 {
		labels := make([]string, len(enabled))
		for i, key := range enabled {
			labels[i] = Label(key)
		}
		amenities = strings.Join(labels, ", ")
	}
	offer := "no"
	if d.Offer {
		offer = fmt.Sprintf("yes, %s %s", d.CurrencyCode(), formatAmount(d.DiscountPrice))
	}
	video := "none"
	if d.VideoURL != "" {
		video = "attached"
	}
	images := strconv.Itoa(len(d.ImageURLs))
	if estimate != nil && len(d.ImageURLs) > 0 {
		images = fmt.Sprintf("%d (~%.1f MB)", len(d.ImageURLs), estimate(d.ImageURLs)/(1024*1024))
	}

	return []Section{
		{Title: "Basic Information", Rows: []Row{
			{"Name", d.Name},
			{"Property Type", Label(string(d.PropertyType))},
			{"Listing Type", Label(string(d.Type))},
			{"Status", Label(string(d.PropertyStatus))},
			{"Description", d.Description},
		}},
		{Title: "Property Details", Rows: []Row{
			{"Bedrooms", formatAmount(d.Bedrooms)},
			{"Bathrooms", formatAmount(d.Bathrooms)},
			{"Total Area", formatAmount(d.TotalArea)},
			{"Built-up Area", formatAmount(d.BuiltUpArea)},
			{"Floor", fmt.Sprintf("%s of %s", formatAmount(d.FloorNumber), formatAmount(d.TotalFloors))},
			{"Furnishing", Label(string(d.Furnishing))},
			{"Parking", yesNo(d.Parking)},
		}},
		{Title: "Location & Amenities", Rows: []Row{
			{"Address", d.Address},
			{"Coordinates", location},
			{"Amenities", amenities},
		}},
		{Title: "Pricing & Media", Rows: []Row{
			{"Price", fmt.Sprintf("%s %s / %s", d.CurrencyCode(), formatAmount(d.RegularPrice), d.PaymentFrequency)},
			{"Offer", offer},
			{"Maintenance", formatAmount(d.MaintenanceFees)},
			{"Deposit", formatAmount(d.Deposit)},
			{"Images", images},
			{"Video", video},
		}},
	}
}

func formatAmount(n Number) string {
	return strconv.FormatFloat(n.Float(), 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
