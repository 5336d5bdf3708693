package shared

import (
	_ "embed"
	"encoding/json"

	"hotel_directory/internal/domain"
)

//go:embed data/hotels.json
var defaultHotelsJSON []byte

//go:embed data/countries.json
var defaultCountriesJSON []byte

// DefaultHotels returns a fresh copy of the bundled hotel dataset, used when
// no persisted snapshot exists.
func DefaultHotels() []domain.Hotel {
	var hs []domain.Hotel
	if err := json.Unmarshal(defaultHotelsJSON, &hs); err != nil {
		panic("shared: bundled hotels.json is invalid: " + err.Error())
	}
	return hs
}

// DefaultCountries returns the bundled country reference list.
func DefaultCountries() []domain.Country {
	var cs []domain.Country
	if err := json.Unmarshal(defaultCountriesJSON, &cs); err != nil {
		panic("shared: bundled countries.json is invalid: " + err.Error())
	}
	return cs
}
