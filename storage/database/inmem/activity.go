package inmemdb

import (
	"context"
	"sort"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
)

type activityRepository struct {
	db *activityTable
}

var _ challenge.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) challenge.Repository {
	return &activityRepository{db: db.activity}
}

func (repo *activityRepository) UpsertActivity(_ context.Context, act challenge.Activity) (challenge.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, a := range repo.db.table {
		if a.UserID == act.UserID && a.SchoolYear == act.SchoolYear && a.WeekNumber == act.WeekNumber &&
			a.ProblemType == act.ProblemType && a.ProblemTitle == act.ProblemTitle {
			a.Status = act.Status
			a.ProblemURL = act.ProblemURL
			a.UpdatedAt = act.UpdatedAt.UTC()
			return *a, nil
		}
	}

	repo.db.pk++
	act.ID = repo.db.pk
	act.UpdatedAt = act.UpdatedAt.UTC()
	repo.db.table[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) QueryActivities(_ context.Context, filter challenge.ActivityFilter) ([]challenge.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	userIDs := append([]string{}, filter.UserIDs...)
	sort.Strings(userIDs)

	acts := make([]challenge.Activity, 0)
	for _, a := range repo.db.table {
		switch {
		case len(userIDs) > 0 && !core.StringSliceContains(userIDs, a.UserID):
			continue
		case filter.SchoolYear != 0 && a.SchoolYear != filter.SchoolYear:
			continue
		case filter.WeekNumber != 0 && a.WeekNumber != filter.WeekNumber:
			continue
		case filter.FromWeek != 0 && a.WeekNumber < filter.FromWeek:
			continue
		case filter.ToWeek != 0 && a.WeekNumber > filter.ToWeek:
			continue
		}
		acts = append(acts, *a)
	}
	sort.Slice(acts, func(i, j int) bool {
		if acts[i].WeekNumber != acts[j].WeekNumber {
			return acts[i].WeekNumber < acts[j].WeekNumber
		}
		return acts[i].ID < acts[j].ID
	})
	return acts, nil
}
