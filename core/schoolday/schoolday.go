// Package schoolday maps calendar dates to school-day numbers and back.
//
// School day #1 is the epoch (the first day of school). Only Monday to Friday count; weekends
// map to the preceding Friday. Holidays are not modelled.
package schoolday

import (
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

const (
	DaysPerWeek   = 5
	secondsPerDay = 24 * 60 * 60
)

// DefaultEpoch is the first day of the 2025-26 school year (a Tuesday).
var DefaultEpoch = time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)

// civil drops the time of day of t as seen in loc. The result is expressed in UTC so that day
// arithmetic never crosses a DST boundary.
func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days between two civil midnights. Unix seconds keep it exact for
// dates a time.Duration cannot span.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

// Number returns the school-day number of date: 0 before the epoch, otherwise the count of
// Mon–Fri days in [epoch, date]. Both dates are read in the epoch's location.
func Number(epoch, date time.Time) int {
	loc := epoch.Location()
	e, d := civil(epoch, loc), civil(date, loc)
	if d.Before(e) {
		return 0
	}

	days := daysBetween(e, d) + 1 // inclusive
	n := (days / 7) * DaysPerWeek
	start := e.Weekday()
	for i := 0; i < days%7; i++ {
		if isWeekday((start + time.Weekday(i)) % 7) {
			n++
		}
	}
	return n
}

// Date returns the weekday on or after the epoch whose school-day number is n, at midnight in the
// epoch's location.
func Date(epoch time.Time, n int) (time.Time, error) {
	if n <= 0 {
		return time.Time{}, errors.Wrapf(core.ErrInvalidArgument, "school day %d", n)
	}
	loc := epoch.Location()
	e := civil(epoch, loc)
	switch e.Weekday() {
	case time.Saturday:
		e = e.AddDate(0, 0, 2)
	case time.Sunday:
		e = e.AddDate(0, 0, 1)
	}

	monday := e.AddDate(0, 0, -int(e.Weekday()-time.Monday))
	offset := int(e.Weekday()-time.Monday) + n - 1
	d := monday.AddDate(0, 0, (offset/DaysPerWeek)*7+offset%DaysPerWeek)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

// WeekOf returns the 1-based school week of school day n; 0 before school starts.
func WeekOf(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)/DaysPerWeek + 1
}

// FirstDayOfWeek returns the school-day number of the Monday-equivalent of the 1-based week.
func FirstDayOfWeek(week int) int {
	if week <= 0 {
		return 0
	}
	return (week-1)*DaysPerWeek + 1
}

// Calendar binds an epoch to the location "today" is resolved in.
type Calendar struct {
	Epoch    time.Time
	Location *time.Location
}

// NewCalendar returns a Calendar starting on epoch's own calendar date, taken as midnight in loc.
// A weekend epoch is rejected: day #1 must be a school day.
func NewCalendar(epoch time.Time, loc *time.Location) (Calendar, error) {
	if err := vala.BeginValidation().Validate(
		func() (bool, string) { return loc != nil, "location must be set" },
		func() (bool, string) { return !epoch.IsZero(), "epoch must be set" },
	).Check(); err != nil {
		return Calendar{}, errors.Wrap(core.ErrInvalidConfiguration, err.Error())
	}

	y, m, d := epoch.Date()
	e := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if !isWeekday(e.Weekday()) {
		return Calendar{}, errors.Wrapf(core.ErrInvalidConfiguration, "epoch %s is a %s", e.Format("2006-01-02"), e.Weekday())
	}
	return Calendar{Epoch: e, Location: loc}, nil
}

// Today returns the school-day number of now.
func (c Calendar) Today(now time.Time) int {
	return Number(c.Epoch, now.In(c.Location))
}

func (c Calendar) Number(date time.Time) int {
	return Number(c.Epoch, date)
}

func (c Calendar) Date(n int) (time.Time, error) {
	return Date(c.Epoch, n)
}

// CurrentWeek returns the 1-based school week of now; 0 before school starts.
func (c Calendar) CurrentWeek(now time.Time) int {
	return WeekOf(c.Today(now))
}

// SchoolYear identifies the school year by the calendar year it starts in.
func (c Calendar) SchoolYear() int {
	return c.Epoch.Year()
}
