// Package forecast holds the forecast domain model: per-city records, the
// effective-date resolver, the north-to-south sorter, and the weather-code
// icon mapping.
package forecast

import "fmt"

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// DateFormat is the ISO date layout used throughout the IMS feed and this
// codebase ("2006-01-02").
const DateFormat = "2006-01-02"

// HumidityRange is an optional relative-humidity span in percent.
type HumidityRange struct {
	Min int
	Max int
}

// Record is one city's forecast for one date. Records are built by the
// ingest layer and read-only afterwards.
type Record struct {
	// CityID is the IMS location identifier.
	CityID int
	// NameEng is the Latin-script city name (e.g. "Tel Aviv-Yafo").
	NameEng string
	// NameHeb is the Hebrew-script city name, in logical order.
	NameHeb string
	// Latitude and Longitude are the display coordinates from the feed.
	Latitude  float64
	Longitude float64
	// Date is the forecast date in DateFormat.
	Date string
	// MaxTemp and MinTemp are daily extremes in °C.
	MaxTemp int
	MinTemp int
	// WeatherCode is the IMS weather code (e.g. 1250 = clear).
	WeatherCode int
	// Humidity is the relative humidity range, nil when the feed omits it.
	Humidity *HumidityRange
	// Wind is the free-text wind descriptor, empty when omitted.
	Wind string
}

// TempRange formats the record's temperature span for display, e.g. "18-27°C".
func (r Record) TempRange() string {
	return fmt.Sprintf("%d-%d°C", r.MinTemp, r.MaxTemp)
}

// Set is an ordered sequence of records, one per city, all sharing the same
// effective date, ordered north to south (descending latitude).
type Set struct {
	// EffectiveDate is the date the records describe, which may differ from
	// the date originally requested (see Resolve).
	EffectiveDate string
	// Records is the sorted record list.
	Records []Record
}

// Valid reports whether the set upholds its invariants: a non-empty record
// list with unique city IDs, every record on the effective date, in
// non-ascending latitude order.
func (s Set) Valid() bool {
	if len(s.Records) == 0 {
		return false
	}
	seen := make(map[int]bool, len(s.Records))
	for i, r := range s.Records {
		if r.Date != s.EffectiveDate {
			return false
		}
		if seen[r.CityID] {
			return false
		}
		seen[r.CityID] = true
		if i > 0 && s.Records[i-1].Latitude < r.Latitude {
			return false
		}
	}
	return true
}
