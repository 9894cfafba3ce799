package forecast

import (
	"fmt"
	"log/slog"
	"sort"
)

// ///////////////////////////////////////////////
// Effective-Date Resolution
// ///////////////////////////////////////////////

// Resolution is the outcome of picking an effective forecast date.
type Resolution struct {
	// EffectiveDate is the date whose records were selected. Equal to the
	// requested date on an exact match, later when fallback was needed.
	EffectiveDate string
	// Records holds the records found for the effective date, unsorted.
	Records []Record
	// Warning is non-empty when the record count differs from the expected
	// city count. The caller decides whether to proceed or abort.
	Warning string
}

// FellBack reports whether the resolution used a date other than requested.
func (r Resolution) FellBack(requested string) bool {
	return r.EffectiveDate != requested
}

// Resolve picks the effective date to render. It first tries an exact match
// for target in byDate. When the target date has no records it scans the
// remaining distinct dates in chronological order and takes the first one
// with at least one record. ISO dates compare chronologically as strings, so
// plain string sorting gives the scan order.
//
// Returns ErrDataUnavailable when no date yields any record. A record count
// short of expectedCities is reported through Resolution.Warning, never as
// an error.
func Resolve(log *slog.Logger, byDate map[string][]Record, target string, expectedCities int) (Resolution, error) {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	log.Debug("candidate forecast dates", "dates", fmt.Sprint(dates), "target", target)

	records := byDate[target]
	effective := target

	if len(records) == 0 {
		log.Warn("no records for target date, scanning forward", "target", target)
		effective = ""
		for _, d := range dates {
			// Only dates after the target are candidates; rendering stale
			// data from an earlier date is worse than failing.
			if d <= target || len(byDate[d]) == 0 {
				continue
			}
			effective = d
			records = byDate[d]
			break
		}
		if effective == "" {
			return Resolution{}, fmt.Errorf("target %s: %w", target, ErrDataUnavailable)
		}
		log.Info("using fallback forecast date", "requested", target, "effective", effective)
	} else {
		log.Info("using requested forecast date", "date", target, "cities", len(records))
	}

	res := Resolution{EffectiveDate: effective, Records: records}
	if expectedCities > 0 && len(records) != expectedCities {
		res.Warning = fmt.Sprintf("expected %d cities for %s, got %d", expectedCities, effective, len(records))
		log.Warn("city count mismatch", "expected", expectedCities, "got", len(records))
	}
	return res, nil
}
