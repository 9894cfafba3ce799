// Package ingest parses the IMS cities forecast XML into domain records.
//
// The feed carries one <Location> element per city, each with several
// <TimeUnitData> blocks (one per forecast date) holding name/value Element
// pairs. Parsing is tolerant: a time unit missing required elements is
// skipped with a log entry rather than failing the whole feed, since the
// resolver can still work with the dates that parsed cleanly.
package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"skystory/internal/forecast"
)

// ///////////////////////////////////////////////
// Feed Schema
// ///////////////////////////////////////////////

// Element names used by the IMS feed.
const (
	elemMaxTemp     = "Maximum temperature"
	elemMinTemp     = "Minimum temperature"
	elemWeatherCode = "Weather code"
	elemMaxHumidity = "Maximum relative humidity"
	elemMinHumidity = "Minimum relative humidity"
	elemWind        = "Wind direction and speed"
)

// xmlFeed matches the feed root element. The root tag name varies between
// the morning and evening products, so it is deliberately not pinned.
type xmlFeed struct {
	IssueDateTime string        `xml:"IssueDateTime"`
	Locations     []xmlLocation `xml:"Location"`
}

type xmlLocation struct {
	Meta xmlLocationMeta `xml:"LocationMetaData"`
	Data struct {
		TimeUnits []xmlTimeUnit `xml:"TimeUnitData"`
	} `xml:"LocationData"`
}

type xmlLocationMeta struct {
	ID      int     `xml:"LocationId"`
	NameEng string  `xml:"LocationNameEng"`
	NameHeb string  `xml:"LocationNameHeb"`
	Lat     float64 `xml:"DisplayLat"`
	Lon     float64 `xml:"DisplayLon"`
}

type xmlTimeUnit struct {
	Date     string `xml:"Date"`
	Elements []struct {
		Name  string `xml:"ElementName"`
		Value string `xml:"ElementValue"`
	} `xml:"Element"`
}

// ///////////////////////////////////////////////
// Dataset
// ///////////////////////////////////////////////

// Dataset is the parsed feed: records grouped by forecast date.
type Dataset struct {
	// IssueDateTime is the feed's publication timestamp, verbatim.
	IssueDateTime string
	// ByDate maps ISO dates to the records available for that date.
	ByDate map[string][]forecast.Record
}

// Dates returns the distinct forecast dates present, chronologically sorted.
func (d Dataset) Dates() []string {
	dates := make([]string, 0, len(d.ByDate))
	for date := range d.ByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// ///////////////////////////////////////////////
// Parsing
// ///////////////////////////////////////////////

// Parse reads the UTF-8 feed XML from r and groups records by date.
func Parse(log *slog.Logger, r io.Reader) (Dataset, error) {
	var feed xmlFeed
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&feed); err != nil {
		return Dataset{}, fmt.Errorf("decode forecast xml: %w", err)
	}
	if len(feed.Locations) == 0 {
		return Dataset{}, fmt.Errorf("forecast xml contains no Location elements")
	}
	log.Debug("parsed forecast feed", "locations", len(feed.Locations), "issued", feed.IssueDateTime)

	ds := Dataset{
		IssueDateTime: feed.IssueDateTime,
		ByDate:        make(map[string][]forecast.Record),
	}
	for i, loc := range feed.Locations {
		meta := loc.Meta
		if meta.ID == 0 {
			// Some historical feed snapshots omit LocationId; fall back to
			// the element position so city IDs stay unique within the feed.
			meta.ID = -(i + 1)
		}
		for _, tu := range loc.Data.TimeUnits {
			rec, err := buildRecord(meta, tu)
			if err != nil {
				log.Warn("skipping time unit", "city", meta.NameEng, "date", tu.Date, "reason", err)
				continue
			}
			ds.ByDate[rec.Date] = append(ds.ByDate[rec.Date], rec)
		}
	}
	if len(ds.ByDate) == 0 {
		return Dataset{}, fmt.Errorf("forecast xml yielded no usable time units")
	}
	return ds, nil
}

// ParseFile opens and parses a feed file from disk.
func ParseFile(log *slog.Logger, path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open forecast xml: %w", err)
	}
	defer f.Close()
	ds, err := Parse(log, f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// buildRecord assembles one forecast.Record from a location's time unit,
// enforcing the required fields (names, coordinates, temperatures, weather
// code). Humidity and wind stay optional.
func buildRecord(meta xmlLocationMeta, tu xmlTimeUnit) (forecast.Record, error) {
	if meta.NameEng == "" || meta.NameHeb == "" {
		return forecast.Record{}, fmt.Errorf("missing city names")
	}
	if meta.Lat == 0 {
		return forecast.Record{}, fmt.Errorf("missing latitude")
	}
	if tu.Date == "" {
		return forecast.Record{}, fmt.Errorf("missing date")
	}

	values := make(map[string]string, len(tu.Elements))
	for _, el := range tu.Elements {
		values[strings.TrimSpace(el.Name)] = strings.TrimSpace(el.Value)
	}

	maxTemp, err := requiredInt(values, elemMaxTemp)
	if err != nil {
		return forecast.Record{}, err
	}
	minTemp, err := requiredInt(values, elemMinTemp)
	if err != nil {
		return forecast.Record{}, err
	}
	code, err := requiredInt(values, elemWeatherCode)
	if err != nil {
		return forecast.Record{}, err
	}

	rec := forecast.Record{
		CityID:      meta.ID,
		NameEng:     meta.NameEng,
		NameHeb:     meta.NameHeb,
		Latitude:    meta.Lat,
		Longitude:   meta.Lon,
		Date:        tu.Date,
		MaxTemp:     maxTemp,
		MinTemp:     minTemp,
		WeatherCode: code,
		Wind:        values[elemWind],
	}

	if minH, okMin := intValue(values, elemMinHumidity); okMin {
		if maxH, okMax := intValue(values, elemMaxHumidity); okMax {
			rec.Humidity = &forecast.HumidityRange{Min: minH, Max: maxH}
		}
	}
	return rec, nil
}

// requiredInt reads a mandatory integer element value.
func requiredInt(values map[string]string, name string) (int, error) {
	v, ok := intValue(values, name)
	if !ok {
		return 0, fmt.Errorf("missing or invalid %q", name)
	}
	return v, nil
}

// intValue reads an optional integer element value.
func intValue(values map[string]string, name string) (int, bool) {
	s, ok := values[name]
	if !ok || s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
