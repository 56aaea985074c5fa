// Package forecast turns a flat 3-hour forecast series into per-day summaries.
package forecast

import (
	"cmp"
	"slices"
	"time"

	"weather-dashboard/models"
)

// DayKey identifies a local calendar date
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKeyFor returns the calendar date of ts in loc. A nil loc means time.Local.
func DayKeyFor(ts int64, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := time.Unix(ts, 0).In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// categoryTally counts one condition category inside a day
type categoryTally struct {
	count  int
	first  int // index of first occurrence in the time-sorted day
	detail models.Condition
}

// accumulator collects the samples of one day
type accumulator struct {
	timestamp int64
	min, max  *float64
	samples   int
	fallback  models.Condition
	tallies   map[string]*categoryTally
	seen      int
}

func (a *accumulator) add(s models.Sample) {
	if a.samples == 0 {
		// Samples arrive sorted, the first one is the earliest.
		a.timestamp = s.Timestamp
		a.fallback = firstCondition(s)
	}
	a.samples++

	if s.TemperatureMin != nil && (a.min == nil || *s.TemperatureMin < *a.min) {
		a.min = models.Float(*s.TemperatureMin)
	}
	if s.TemperatureMax != nil && (a.max == nil || *s.TemperatureMax > *a.max) {
		a.max = models.Float(*s.TemperatureMax)
	}

	cond, ok := primaryCondition(s)
	if !ok {
		return
	}
	t, exists := a.tallies[cond.Category]
	if !exists {
		t = &categoryTally{first: a.seen, detail: cond}
		a.tallies[cond.Category] = t
	}
	t.count++
	a.seen++
}

// dominant picks the most frequent category; ties go to the earliest first occurrence
func (a *accumulator) dominant() models.Condition {
	var best *categoryTally
	for _, t := range a.tallies {
		if best == nil || t.count > best.count || (t.count == best.count && t.first < best.first) {
			best = t
		}
	}
	if best == nil {
		return a.fallback
	}
	return best.detail
}

func (a *accumulator) summary() models.DailySummary {
	return models.DailySummary{
		Timestamp:      a.timestamp,
		TemperatureMin: a.min,
		TemperatureMax: a.max,
		Condition:      a.dominant(),
		Samples:        a.samples,
	}
}

// primaryCondition returns the first condition entry if it carries a category
func primaryCondition(s models.Sample) (models.Condition, bool) {
	if len(s.Conditions) == 0 || s.Conditions[0].Category == "" {
		return models.Condition{}, false
	}
	return s.Conditions[0], true
}

// firstCondition returns the raw first condition entry, which may lack a category
func firstCondition(s models.Sample) models.Condition {
	if len(s.Conditions) == 0 {
		return models.Condition{}
	}
	return s.Conditions[0]
}

func compareSamples(a, b models.Sample) int {
	if c := cmp.Compare(a.Timestamp, b.Timestamp); c != 0 {
		return c
	}
	ca, cb := firstCondition(a), firstCondition(b)
	return cmp.Or(
		cmp.Compare(ca.Category, cb.Category),
		cmp.Compare(ca.Description, cb.Description),
		cmp.Compare(ca.Icon, cb.Icon),
	)
}

// Aggregate groups samples by local calendar day (in loc, nil means time.Local) and
// reduces each day to a summary. The result is ordered by Timestamp and never nil.
//
// Samples without a positive timestamp are dropped. Samples without a condition category
// still count towards the day's temperatures but not towards the dominant condition. A day
// where no sample has a category keeps the earliest sample's raw condition, possibly empty.
func Aggregate(samples []models.Sample, loc *time.Location) []models.DailySummary {
	sorted := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Timestamp > 0 {
			sorted = append(sorted, s)
		}
	}
	slices.SortStableFunc(sorted, compareSamples)

	days := make(map[DayKey]*accumulator)
	for _, s := range sorted {
		key := DayKeyFor(s.Timestamp, loc)
		acc, ok := days[key]
		if !ok {
			acc = &accumulator{tallies: make(map[string]*categoryTally)}
			days[key] = acc
		}
		acc.add(s)
	}

	summaries := make([]models.DailySummary, 0, len(days))
	for _, acc := range days {
		summaries = append(summaries, acc.summary())
	}
	slices.SortFunc(summaries, func(a, b models.DailySummary) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return summaries
}

// SampleStats describes the input quality of one aggregation
type SampleStats struct {
	Total          int
	NoTimestamp    int
	NoCondition    int
	NoTemperatures int
}

// Stats counts malformed samples without aggregating
func Stats(samples []models.Sample) SampleStats {
	st := SampleStats{Total: len(samples)}
	for _, s := range samples {
		if s.Timestamp <= 0 {
			st.NoTimestamp++
			continue
		}
		if _, ok := primaryCondition(s); !ok {
			st.NoCondition++
		}
		if s.TemperatureMin == nil && s.TemperatureMax == nil {
			st.NoTemperatures++
		}
	}
	return st
}

// Daily aggregates a fetched forecast in the zone the settings select
func Daily(f models.ForecastData, settings models.Settings) models.DailyForecast {
	return models.DailyForecast{
		Provider: f.Provider,
		Location: f.Location,
		Units:    f.Units,
		Updated:  f.Updated,
		Days:     Aggregate(f.Samples, settings.Zone(f)),
	}
}
