package schoolday

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNumber(t *testing.T) {
	epoch := DefaultEpoch // Tue 2025-09-02

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "before epoch", date: date(2025, time.September, 1), want: 0},
		{name: "long before epoch", date: date(2024, time.January, 10), want: 0},
		{name: "epoch", date: epoch, want: 1},
		{name: "epoch, late in the day", date: epoch.Add(23*time.Hour + 59*time.Minute), want: 1},
		{name: "first friday", date: date(2025, time.September, 5), want: 4},
		{name: "first saturday", date: date(2025, time.September, 6), want: 4},
		{name: "first sunday", date: date(2025, time.September, 7), want: 4},
		{name: "second monday", date: date(2025, time.September, 8), want: 5},
		{name: "second friday", date: date(2025, time.September, 12), want: 9},
		{name: "a month later", date: date(2025, time.October, 2), want: 23},
		{name: "across DST end", date: date(2025, time.November, 3), want: 45},
		{name: "next year", date: date(2026, time.January, 5), want: 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(epoch, tt.date))
		})
	}
}

func TestNumber_Location(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	epoch := time.Date(2025, time.September, 2, 0, 0, 0, 0, ny)

	// 2025-09-03 02:00 UTC is still the 2nd in New York
	assert.Equal(t, 1, Number(epoch, time.Date(2025, time.September, 3, 2, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, Number(epoch, time.Date(2025, time.September, 3, 23, 0, 0, 0, ny)))
	// DST ends on 2025-11-02
	assert.Equal(t, 45, Number(epoch, time.Date(2025, time.November, 3, 0, 30, 0, 0, ny)))
}

func TestDate(t *testing.T) {
	epoch := DefaultEpoch

	tests := []struct {
		name    string
		n       int
		want    time.Time
		wantErr error
	}{
		{name: "zero", n: 0, wantErr: core.ErrInvalidArgument},
		{name: "negative", n: -3, wantErr: core.ErrInvalidArgument},
		{name: "day 1", n: 1, want: date(2025, time.September, 2)},
		{name: "day 4 (friday)", n: 4, want: date(2025, time.September, 5)},
		{name: "day 5 (monday)", n: 5, want: date(2025, time.September, 8)},
		{name: "day 9", n: 9, want: date(2025, time.September, 12)},
		{name: "day 90", n: 90, want: date(2026, time.January, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(epoch, tt.n)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Date() = %v, want %v", got, tt.want)
		})
	}
}

func TestDate_RoundTrip(t *testing.T) {
	epoch := DefaultEpoch
	for n := 1; n <= 200; n++ {
		d, err := Date(epoch, n)
		require.NoError(t, err)
		assert.True(t, isWeekday(d.Weekday()), "day %d falls on %s", n, d.Weekday())
		assert.Equal(t, n, Number(epoch, d), "day %d", n)
	}

	// and the other way around
	for d := epoch; d.Before(epoch.AddDate(1, 0, 0)); d = d.AddDate(0, 0, 1) {
		if !isWeekday(d.Weekday()) {
			continue
		}
		n := Number(epoch, d)
		back, err := Date(epoch, n)
		require.NoError(t, err)
		assert.True(t, d.Equal(back), "%v -> %d -> %v", d, n, back)
	}
}

func TestWeekOf(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {-1, 0}, {1, 1}, {5, 1}, {6, 2}, {10, 2}, {11, 3}, {180, 36},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekOf(tt.n), "WeekOf(%d)", tt.n)
	}
	assert.Equal(t, 1, FirstDayOfWeek(1))
	assert.Equal(t, 6, FirstDayOfWeek(2))
	assert.Equal(t, 0, FirstDayOfWeek(0))
}

func TestCalendar(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	_, err = NewCalendar(date(2025, time.September, 6), ny)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration), "weekend epoch: err = %v", err)

	_, err = NewCalendar(DefaultEpoch, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidConfiguration), "nil location: err = %v", err)

	cal, err := NewCalendar(time.Date(2025, time.September, 2, 0, 0, 0, 0, ny), ny)
	require.NoError(t, err)
	assert.Equal(t, 2025, cal.SchoolYear())

	now := time.Date(2025, time.September, 9, 15, 0, 0, 0, ny) // Tuesday of week 2
	assert.Equal(t, 6, cal.Today(now))
	assert.Equal(t, 2, cal.CurrentWeek(now))
	assert.Equal(t, 0, cal.Today(time.Date(2025, time.August, 29, 12, 0, 0, 0, ny)))
	assert.Equal(t, 0, cal.CurrentWeek(time.Date(2025, time.August, 29, 12, 0, 0, 0, ny)))

	d, err := cal.Date(6)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-09", d.Format("2006-01-02"))
	assert.Equal(t, ny, d.Location())
}

func TestNumber_FarFuture(t *testing.T) {
	epoch := DefaultEpoch

	for _, n := range []int{76252, 100000} {
		d, err := Date(epoch, n)
		require.NoError(t, err)
		assert.Greater(t, d.Year(), 2300, "day %d", n)
		assert.Equal(t, n, Number(epoch, d), "day %d", n)
	}

	far := date(2400, time.January, 3)
	for !isWeekday(far.Weekday()) {
		far = far.AddDate(0, 0, 1)
	}
	back, err := Date(epoch, Number(epoch, far))
	require.NoError(t, err)
	assert.True(t, far.Equal(back), "%v -> %v", far, back)
}

func TestNewCalendar_Epoch(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name    string
		epoch   time.Time
		wantDay string
		wantErr bool
	}{
		{name: "utc midnight", epoch: DefaultEpoch, wantDay: "2025-09-02"},
		{name: "local morning", epoch: time.Date(2025, time.September, 2, 9, 0, 0, 0, ny), wantDay: "2025-09-02"},
		{name: "utc late evening", epoch: time.Date(2025, time.September, 2, 23, 30, 0, 0, time.UTC), wantDay: "2025-09-02"},
		{name: "saturday", epoch: date(2025, time.September, 6), wantErr: true},
		{name: "sunday in new york", epoch: time.Date(2025, time.September, 7, 0, 0, 0, 0, ny), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, err := NewCalendar(tt.epoch, ny)
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrInvalidConfiguration), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDay, cal.Epoch.Format("2006-01-02"))
			assert.Equal(t, time.Tuesday, cal.Epoch.Weekday())
			assert.Equal(t, 1, cal.Today(time.Date(2025, time.September, 2, 8, 0, 0, 0, ny)))
			assert.Equal(t, 0, cal.Today(time.Date(2025, time.September, 1, 23, 0, 0, 0, ny)))
		})
	}
}
