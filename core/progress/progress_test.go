package progress

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	for _, bad := range []string{"", "done", "COMPLETED", "completed ", "in_progress"} {
		_, err := ParseStatus(bad)
		assert.True(t, errors.Is(err, ErrUnknownStatus), "ParseStatus(%q) err = %v", bad, err)
	}
}

func TestStatus_Next(t *testing.T) {
	assert.Equal(t, Viewed, NotAttempted.Next())
	assert.Equal(t, Completed, Viewed.Next())
	assert.Equal(t, NotAttempted, Completed.Next())
}

func TestAggregate(t *testing.T) {
	units := func(statuses ...Status) []Unit {
		us := make([]Unit, 0, len(statuses))
		for _, st := range statuses {
			us = append(us, Unit{Status: st, Outcome: true})
		}
		return us
	}

	tests := []struct {
		name    string
		units   []Unit
		want    Summary
		wantErr error
	}{
		{name: "no units", want: Summary{}},
		{name: "nothing done", units: units(NotAttempted, Viewed), want: Summary{Completed: 0, Total: 2}},
		{name: "one third", units: units(Completed, Viewed, NotAttempted), want: Summary{Completed: 1, Total: 3, Percentage: 33}},
		{name: "two thirds", units: units(Completed, Completed, NotAttempted), want: Summary{Completed: 2, Total: 3, Percentage: 67}},
		{name: "half rounds up", units: units(Completed, Viewed), want: Summary{Completed: 1, Total: 2, Percentage: 50}},
		{
			name:  "13 items, 1 done",
			units: append(units(Completed), units(NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted, NotAttempted)...),
			want:  Summary{Completed: 1, Total: 13, Percentage: 8},
		},
		{name: "all done", units: units(Completed, Completed), want: Summary{Completed: 2, Total: 2, Percentage: 100}},
		{
			name:  "completed without outcome",
			units: []Unit{{Status: Completed, Outcome: false}, {Status: Completed, Outcome: true}},
			want:  Summary{Completed: 1, Total: 2, Percentage: 50},
		},
		{name: "unknown status", units: []Unit{{Status: "done", Outcome: true}}, wantErr: ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.units)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// read-only & idempotent
			again, err := Aggregate(tt.units)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCounts(t *testing.T) {
	tests := []struct {
		name    string
		units   []Unit
		want    map[Status]int
		wantErr error
	}{
		{
			name:  "no units",
			units: nil,
			want:  map[Status]int{NotAttempted: 0, Viewed: 0, Completed: 0},
		},
		{
			name:  "mixed",
			units: []Unit{{Status: Viewed}, {Status: Viewed}, {Status: Completed}},
			want:  map[Status]int{NotAttempted: 0, Viewed: 2, Completed: 1},
		},
		{
			name:    "unknown status",
			units:   []Unit{{Status: Viewed}, {Status: "done"}},
			wantErr: ErrUnknownStatus,
		},
		{
			name:    "empty status",
			units:   []Unit{{Status: ""}},
			wantErr: ErrUnknownStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Counts(tt.units)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
