package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
)

const activityColumns = "id, user_id, week_number, school_year, problem_type, problem_title, problem_url, status, updated_at"

type activityRepository struct {
	repo
}

var _ challenge.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(exec core.DBExecutor) *activityRepository {
	return &activityRepository{repo{exec: exec}}
}

func (r activityRepository) UpsertActivity(ctx context.Context, act challenge.Activity) (challenge.Activity, error) {
	q := `INSERT INTO weekly_activities (user_id, week_number, school_year, problem_type, problem_title, problem_url, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, week_number, school_year, problem_type, problem_title)
		DO UPDATE SET problem_url = excluded.problem_url, status = excluded.status, updated_at = excluded.updated_at
		RETURNING ` + activityColumns

	act.UpdatedAt = act.UpdatedAt.UTC()
	var stored challenge.Activity
	if err := get(ctx, r.exec, &stored, q,
		act.UserID, act.WeekNumber, act.SchoolYear, act.ProblemType, act.ProblemTitle, act.ProblemURL,
		act.Status, act.UpdatedAt,
	); err != nil {
		return challenge.Activity{}, errors.Wrap(err, "upserting activity")
	}
	stored.UpdatedAt = stored.UpdatedAt.UTC()
	return stored, nil
}

func (r activityRepository) QueryActivities(ctx context.Context, filter challenge.ActivityFilter) ([]challenge.Activity, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.UserIDs) > 0 {
		conds = append(conds, "user_id IN (?)")
		args = append(args, filter.UserIDs)
	}
	if filter.SchoolYear != 0 {
		conds = append(conds, "school_year = ?")
		args = append(args, filter.SchoolYear)
	}
	if filter.WeekNumber != 0 {
		conds = append(conds, "week_number = ?")
		args = append(args, filter.WeekNumber)
	}
	if filter.FromWeek != 0 {
		conds = append(conds, "week_number >= ?")
		args = append(args, filter.FromWeek)
	}
	if filter.ToWeek != 0 {
		conds = append(conds, "week_number <= ?")
		args = append(args, filter.ToWeek)
	}

	q := "SELECT " + activityColumns + " FROM weekly_activities"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY week_number, id"

	q, args, err := in(r.exec, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building activities query")
	}
	acts := make([]challenge.Activity, 0)
	if err := sqlx.SelectContext(ctx, r.exec, &acts, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	for i := range acts {
		acts[i].UpdatedAt = acts[i].UpdatedAt.UTC()
	}
	return acts, nil
}
