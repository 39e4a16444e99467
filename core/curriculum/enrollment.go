package curriculum

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
)

type Source string

const (
	SourceCurated   Source = "curated"
	SourceGenerated Source = "generated"
)

var (
	ErrEnrollmentNotFound = errors.Wrap(core.ErrNotFound, "course enrollment not found")
	ErrWeekNotFound       = errors.Wrap(core.ErrNotFound, "week not found")
)

type (
	CriterionScore struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
		Max   int    `json:"max"`
	}

	// Attempt is a previous grading of the same activity.
	Attempt struct {
		Score       int              `json:"score"`
		TotalPoints int              `json:"total_points"`
		Grade       string           `json:"grade"`
		Criteria    []CriterionScore `json:"criteria,omitempty"`
		SubmittedAt time.Time        `json:"submitted_at"`
	}

	Submission struct {
		Activity    Activity         `json:"activity"`
		Score       int              `json:"score"`
		TotalPoints int              `json:"total_points"`
		Grade       string           `json:"grade"`
		Criteria    []CriterionScore `json:"criteria,omitempty"`
		Feedback    string           `json:"feedback,omitempty"`
		Content     string           `json:"content"`
		SubmittedAt time.Time        `json:"submitted_at"`
		History     []Attempt        `json:"history"`
	}

	WeekProgress struct {
		Week             int                      `json:"week"`
		SelectedActivity Activity                 `json:"selected_activity,omitempty"`
		Submissions      map[Activity]*Submission `json:"submissions"`
	}

	// Enrollment is a course a student is taking, curated or generated. Content holds the weeks as
	// they were when the student enrolled.
	Enrollment struct {
		ID         string         `json:"id"`
		UserID     string         `json:"user_id"`
		Source     Source         `json:"source"`
		CourseSlug string         `json:"course_slug,omitempty"`
		Title      string         `json:"title"`
		Content    []Week         `json:"content"`
		Weeks      []WeekProgress `json:"weeks"`
		CreatedAt  time.Time      `json:"created_at"`
		UpdatedAt  time.Time      `json:"updated_at"`
	}

	EnrollmentFilter struct {
		UserIDs    []string
		Source     Source
		CourseSlug string
	}

	Repository interface {
		CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, id string) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, id string) error
	}
)

func (s Submission) attempt() Attempt {
	return Attempt{
		Score:       s.Score,
		TotalPoints: s.TotalPoints,
		Grade:       s.Grade,
		Criteria:    s.Criteria,
		SubmittedAt: s.SubmittedAt,
	}
}

func newWeekProgress(weeks []Week) []WeekProgress {
	wps := make([]WeekProgress, 0, len(weeks))
	for _, w := range weeks {
		wps = append(wps, WeekProgress{Week: w.Number, Submissions: map[Activity]*Submission{}})
	}
	return wps
}

// Status of a week: completed once the selected activity has a submission, viewed once an activity
// is selected.
func (wp WeekProgress) Status() progress.Status {
	if wp.SelectedActivity == "" {
		return progress.NotAttempted
	}
	if _, ok := wp.Submissions[wp.SelectedActivity]; ok {
		return progress.Completed
	}
	return progress.Viewed
}

func (e *Enrollment) week(num int) (*Week, *WeekProgress, error) {
	var content *Week
	for i := range e.Content {
		if e.Content[i].Number == num {
			content = &e.Content[i]
			break
		}
	}
	if content == nil {
		return nil, nil, errors.Wrapf(ErrWeekNotFound, "week %d", num)
	}
	for i := range e.Weeks {
		if e.Weeks[i].Week == num {
			if e.Weeks[i].Submissions == nil {
				e.Weeks[i].Submissions = map[Activity]*Submission{}
			}
			return content, &e.Weeks[i], nil
		}
	}
	e.Weeks = append(e.Weeks, WeekProgress{Week: num, Submissions: map[Activity]*Submission{}})
	return content, &e.Weeks[len(e.Weeks)-1], nil
}

// Units adapts an enrollment to progress units, one per content week.
func Units(e Enrollment) []progress.Unit {
	byWeek := make(map[int]WeekProgress, len(e.Weeks))
	for _, wp := range e.Weeks {
		byWeek[wp.Week] = wp
	}
	units := make([]progress.Unit, 0, len(e.Content))
	for _, w := range e.Content {
		st := byWeek[w.Number].Status()
		units = append(units, progress.Unit{Status: st, Outcome: st == progress.Completed})
	}
	return units
}
