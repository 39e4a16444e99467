package docstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "docs", "test.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Plans(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

	p1 := planner.Plan{ID: "p1", Topic: "Graphs", Weeks: []curriculum.Week{{Number: 1, Topic: "BFS"}}, CreatedAt: now}
	p2 := planner.Plan{ID: "p2", Topic: "Trees", Weeks: []curriculum.Week{{Number: 1, Topic: "BST"}}, CreatedAt: now.Add(time.Hour)}
	require.NoError(t, s.SavePlan(ctx, "u1", p1))
	require.NoError(t, s.SavePlan(ctx, "u1", p2))
	require.NoError(t, s.SavePlan(ctx, "u10", planner.Plan{ID: "p3", Topic: "Other", CreatedAt: now}))

	plans, err := s.ListPlans(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(t, plans, 2) {
		assert.Equal(t, "p2", plans[0].ID) // newest first
		assert.Equal(t, "p1", plans[1].ID)
	}

	got, err := s.GetPlan(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Graphs", got.Topic)
	assert.Equal(t, "BFS", got.Weeks[0].Topic)

	_, err = s.GetPlan(ctx, "u2", "p1")
	assert.ErrorIs(t, err, planner.ErrPlanNotFound)

	require.NoError(t, s.DeletePlan(ctx, "u1", "p1"))
	assert.ErrorIs(t, s.DeletePlan(ctx, "u1", "p1"), planner.ErrPlanNotFound)
}

func TestStore_Record(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	entries := []planner.RecordEntry{
		{SchoolYear: 2026, MarkingPeriod: 1, PlanID: "p3", Title: "C"},
		{SchoolYear: 2025, MarkingPeriod: 2, PlanID: "p2", Title: "B"},
		{SchoolYear: 2025, MarkingPeriod: 1, PlanID: "p1", Title: "A"},
	}
	for _, e := range entries {
		require.NoError(t, s.PutRecordEntry(ctx, "u1", e))
	}

	all, err := s.ListRecord(ctx, "u1", 0)
	require.NoError(t, err)
	if assert.Len(t, all, 3) {
		assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Title, all[1].Title, all[2].Title})
	}

	year, err := s.ListRecord(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Len(t, year, 2)

	// replace
	require.NoError(t, s.PutRecordEntry(ctx, "u1", planner.RecordEntry{SchoolYear: 2025, MarkingPeriod: 1, PlanID: "p9", Title: "Z"}))
	year, err = s.ListRecord(ctx, "u1", 2025)
	require.NoError(t, err)
	if assert.Len(t, year, 2) {
		assert.Equal(t, "p9", year[0].PlanID)
	}

	require.NoError(t, s.DeleteRecordEntry(ctx, "u1", 2025, 1))
	year, err = s.ListRecord(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Len(t, year, 1)

	none, err := s.ListRecord(ctx, "u2", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
