package geocode

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// AdminRegion is one administrative level of a place.
type AdminRegion struct {
	Code string
	Name string
}

// Place is one gazetteer entry. Values are immutable after load.
type Place struct {
	ID          int64
	Name        string
	ASCIIName   string
	CountryCode string
	Admin1      AdminRegion
	Admin2      AdminRegion
	Admin3      AdminRegion
	Admin4      AdminRegion
	Population  int64
	Latitude    float64
	Longitude   float64
	Timezone    string
}

// Names are the place strings stored on a metadata record.
type Names struct {
	Country string
	State   string
	City    string
}

// Resolve derives country, state and city names for p.
func Resolve(p Place) Names {
	return Names{
		Country: CountryName(p.CountryCode),
		State:   StateName(p),
		City:    p.Name,
	}
}

// StateName joins the admin2 and admin1 names as "admin2, admin1", or
// returns whichever of them is present.
func StateName(p Place) string {
	admin1 := strings.TrimSpace(p.Admin1.Name)
	admin2 := strings.TrimSpace(p.Admin2.Name)
	switch {
	case admin2 != "" && admin1 != "":
		return admin2 + ", " + admin1
	case admin2 != "":
		return admin2
	default:
		return admin1
	}
}

var regionNamer = display.English.Regions()

// CountryName maps an ISO 3166-1 alpha-2 code to its English name. Unknown
// codes are returned unchanged.
func CountryName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() || region.String() != code {
		return code
	}
	if name := regionNamer.Name(region); name != "" {
		return name
	}
	return code
}
