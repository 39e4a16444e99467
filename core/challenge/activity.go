package challenge

import (
	"context"
	"time"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
)

// Activity is a student's status on one problem of one school week.
// (UserID, WeekNumber, SchoolYear, ProblemType, ProblemTitle) is unique.
type Activity struct {
	ID           int             `json:"id" db:"id"`
	UserID       string          `json:"user_id" db:"user_id"`
	WeekNumber   int             `json:"week_number" db:"week_number"` // 1-based
	SchoolYear   int             `json:"school_year" db:"school_year"`
	ProblemType  ProblemType     `json:"problem_type" db:"problem_type"`
	ProblemTitle string          `json:"problem_title" db:"problem_title"`
	ProblemURL   string          `json:"problem_url" db:"problem_url"`
	Status       progress.Status `json:"status" db:"status"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"` // UTC
}

func (a Activity) key() activityKey {
	return activityKey{a.WeekNumber, a.ProblemType, a.ProblemTitle}
}

type activityKey struct {
	week  int
	typ   ProblemType
	title string
}

// ActivityFilter selects activities; zero fields match everything.
type ActivityFilter struct {
	UserIDs    []string
	SchoolYear int
	WeekNumber int
	FromWeek   int
	ToWeek     int
}

type Repository interface {
	// UpsertActivity inserts the activity or updates the status, url & updated_at of the existing one.
	UpsertActivity(ctx context.Context, act Activity) (Activity, error)
	QueryActivities(ctx context.Context, filter ActivityFilter) ([]Activity, error)
}
