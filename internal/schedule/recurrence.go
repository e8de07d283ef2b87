package schedule

import (
	"fmt"
	"time"

	"github.com/priyankverma/cleansched/pkg/models"
)

const (
	// DefaultMaxOccurrences caps one expansion; it is the structural bound
	// that keeps expansion work finite.
	DefaultMaxOccurrences = 52

	// DefaultHorizonMonths is the expansion window used when no end date is
	// given.
	DefaultHorizonMonths = 3
)

// ExpandParams describes one recurrence expansion.
type ExpandParams struct {
	// Pattern is one of daily, weekly, biweekly, monthly.
	Pattern string

	// TemplateStart is the template's scheduled start. Its date is the
	// default start date; its clock time is carried onto every candidate;
	// its weekday anchors the weekly (when no weekday set is given) and
	// biweekly patterns.
	TemplateStart time.Time

	// StartDate overrides the expansion start date.
	StartDate *time.Time

	// EndDate overrides the expansion end date (default start + 3 months).
	EndDate *time.Time

	// DaysOfWeek narrows the weekly pattern; ignored by the others.
	DaysOfWeek []time.Weekday

	// MaxOccurrences caps the result; 0 means DefaultMaxOccurrences.
	MaxOccurrences int
}

// ExpandRecurrence returns the ordered candidate dates for a recurrence
// pattern: each strictly later than the start date, no later than the end
// date, and carrying the template's original time-of-day. Expansion stops at
// the cap or the end date, whichever comes first.
//
// Monthly expansion anchors on the start date's day-of-month; months lacking
// that day silently produce nothing. Biweekly counts whole elapsed weeks
// from the start date, so the week containing days 1-6 after start is an
// "on" week.
func ExpandRecurrence(p ExpandParams) ([]time.Time, error) {
	if !models.ValidPattern(p.Pattern) {
		return nil, fmt.Errorf("%w: unknown recurrence pattern %q", ErrValidation, p.Pattern)
	}
	if p.TemplateStart.IsZero() {
		return nil, fmt.Errorf("%w: template start is required", ErrValidation)
	}

	startDate := dateOnly(p.TemplateStart)
	if p.StartDate != nil {
		startDate = dateOnly(*p.StartDate)
	}
	endDate := startDate.AddDate(0, DefaultHorizonMonths, 0)
	if p.EndDate != nil {
		endDate = dateOnly(*p.EndDate)
	}

	limit := p.MaxOccurrences
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}

	anchorWeekday := p.TemplateStart.Weekday()
	anchorDay := startDate.Day()

	weekdaySet := make(map[time.Weekday]bool, len(p.DaysOfWeek))
	for _, wd := range p.DaysOfWeek {
		weekdaySet[wd] = true
	}

	var dates []time.Time
	for d := startDate.AddDate(0, 0, 1); !d.After(endDate) && len(dates) < limit; d = d.AddDate(0, 0, 1) {
		var match bool
		switch p.Pattern {
		case models.PatternDaily:
			match = true
		case models.PatternWeekly:
			if len(weekdaySet) > 0 {
				match = weekdaySet[d.Weekday()]
			} else {
				match = d.Weekday() == anchorWeekday
			}
		case models.PatternBiweekly:
			wholeWeeks := int(d.Sub(startDate).Hours()) / (24 * 7)
			match = d.Weekday() == anchorWeekday && wholeWeeks%2 == 0
		case models.PatternMonthly:
			match = d.Day() == anchorDay
		}
		if match {
			dates = append(dates, atTimeOfDay(d, p.TemplateStart))
		}
	}
	return dates, nil
}

// dateOnly truncates t to midnight UTC so date iteration is immune to DST.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// atTimeOfDay combines a candidate date with the template's clock time and
// location.
func atTimeOfDay(date time.Time, tmpl time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tmpl.Hour(), tmpl.Minute(), tmpl.Second(), 0, tmpl.Location())
}
