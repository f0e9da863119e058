package domain

import (
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// Period is a calendar-month accounting window [Start, End).
type Period struct {
	start time.Time
}

// PeriodOf returns the month containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())}
}

func ParsePeriod(s string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(periodLayout, s, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

func (p Period) Start() time.Time { return p.start }

func (p Period) End() time.Time { return p.start.AddDate(0, 1, 0) }

func (p Period) Previous() Period { return Period{start: p.start.AddDate(0, -1, 0)} }

func (p Period) Next() Period { return Period{start: p.End()} }

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.End())
}

func (p Period) IsZero() bool { return p.start.IsZero() }

func (p Period) String() string { return p.start.Format(periodLayout) }
