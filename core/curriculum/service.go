package curriculum

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
)

var NowFunc = time.Now // mockable

type (
	// EnrollmentProgress pairs an enrollment with its aggregated progress.
	EnrollmentProgress struct {
		Enrollment
		Progress progress.Summary `json:"progress"`
	}

	ActivityChoice struct {
		Activity string `json:"activity" validate:"required"`
	}
)

type Service struct {
	repo     Repository
	catalog  *Catalog
	grader   Grader
	validate *validator.Validate
}

func NewService(repo Repository, catalog *Catalog, grader Grader, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(grader, "grader"),
		func() (bool, string) { return catalog != nil, "catalog must be set" },
		func() (bool, string) { return validate != nil, "validate must be set" },
	).CheckAndPanic()

	return &Service{repo: repo, catalog: catalog, grader: grader, validate: validate}
}

func (svc *Service) Catalog() *Catalog { return svc.catalog }

func (svc *Service) create(ctx context.Context, e Enrollment) (Enrollment, error) {
	now := NowFunc().UTC()
	e.ID = uuid.NewString()
	e.Weeks = newWeekProgress(e.Content)
	e.CreatedAt = now
	e.UpdatedAt = now
	e, err := svc.repo.CreateEnrollment(ctx, e)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return e, nil
}

// Enroll adds the curated course to the student's courses. Enrolling twice returns the existing
// enrollment.
func (svc *Service) Enroll(ctx context.Context, userID, slug string) (Enrollment, error) {
	course, err := svc.catalog.Get(slug)
	if err != nil {
		return Enrollment{}, err
	}
	existing, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{
		UserIDs:    []string{userID},
		Source:     SourceCurated,
		CourseSlug: course.Slug,
	})
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "querying enrollments")
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	return svc.create(ctx, Enrollment{
		UserID:     userID,
		Source:     SourceCurated,
		CourseSlug: course.Slug,
		Title:      course.Title,
		Content:    course.Weeks,
	})
}

// EnrollPlan starts a course from AI generated weeks.
func (svc *Service) EnrollPlan(ctx context.Context, userID, title string, weeks []Week) (Enrollment, error) {
	title = core.CleanString(title)
	if title == "" {
		return Enrollment{}, core.NewValidationError(nil, core.FieldError{Field: "topic", Error: "this field is required"})
	}
	if len(weeks) == 0 {
		return Enrollment{}, core.NewValidationError(nil, core.FieldError{Field: "weeks", Error: "plan has no weeks"})
	}
	for _, w := range weeks {
		if w.Kind != Generated {
			return Enrollment{}, errors.Wrapf(core.ErrInvalidArgument, "week %d is not a generated week", w.Number)
		}
	}
	return svc.create(ctx, Enrollment{
		UserID:  userID,
		Source:  SourceGenerated,
		Title:   title,
		Content: weeks,
	})
}

func (svc *Service) List(ctx context.Context, userID string) ([]EnrollmentProgress, error) {
	es, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{UserIDs: []string{userID}})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return svc.withProgress(es)
}

// Overview lists the enrollments of several students (admin dashboard).
func (svc *Service) Overview(ctx context.Context, userIDs []string) (map[string][]EnrollmentProgress, error) {
	out := make(map[string][]EnrollmentProgress, len(userIDs))
	for _, id := range userIDs {
		out[id] = []EnrollmentProgress{}
	}
	if len(userIDs) == 0 {
		return out, nil
	}
	es, err := svc.repo.QueryEnrollments(ctx, EnrollmentFilter{UserIDs: userIDs})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	eps, err := svc.withProgress(es)
	if err != nil {
		return nil, err
	}
	for _, ep := range eps {
		out[ep.UserID] = append(out[ep.UserID], ep)
	}
	return out, nil
}

func (svc *Service) withProgress(es []Enrollment) ([]EnrollmentProgress, error) {
	out := make([]EnrollmentProgress, 0, len(es))
	for _, e := range es {
		sum, err := svc.Progress(e)
		if err != nil {
			return nil, err
		}
		out = append(out, EnrollmentProgress{Enrollment: e, Progress: sum})
	}
	return out, nil
}

// Get returns the student's enrollment; other students' enrollments are not found.
func (svc *Service) Get(ctx context.Context, userID, id string) (Enrollment, error) {
	e, err := svc.repo.GetEnrollment(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if e.UserID != userID {
		return Enrollment{}, errors.Wrapf(ErrEnrollmentNotFound, "%q", id)
	}
	return e, nil
}

func (svc *Service) parseActivity(s string) (Activity, error) {
	act, err := ParseActivity(s)
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "activity", Error: "unknown activity"})
	}
	return act, nil
}

func (svc *Service) SelectActivity(ctx context.Context, userID, id string, week int, choice ActivityChoice) (Enrollment, error) {
	if err := svc.validate.Struct(choice); err != nil {
		return Enrollment{}, err
	}
	act, err := svc.parseActivity(choice.Activity)
	if err != nil {
		return Enrollment{}, err
	}
	e, err := svc.Get(ctx, userID, id)
	if err != nil {
		return Enrollment{}, err
	}
	_, wp, err := e.week(week)
	if err != nil {
		return Enrollment{}, err
	}
	wp.SelectedActivity = act
	return svc.update(ctx, e)
}

// Submit grades the work for one activity of a week and stores it. A resubmission replaces the
// current grade and keeps the previous one in History. The activity becomes the selected one if
// none was.
func (svc *Service) Submit(ctx context.Context, userID, id string, week int, activity string, in SubmissionInput) (Submission, error) {
	act, err := svc.parseActivity(activity)
	if err != nil {
		return Submission{}, err
	}
	if err := svc.validate.Struct(in); err != nil {
		return Submission{}, err
	}
	e, err := svc.Get(ctx, userID, id)
	if err != nil {
		return Submission{}, err
	}
	content, wp, err := e.week(week)
	if err != nil {
		return Submission{}, err
	}
	if _, ok := content.Option(act); !ok {
		return Submission{}, core.NewValidationError(nil, core.FieldError{Field: "activity", Error: "activity not offered this week"})
	}

	res, err := svc.grader.Grade(ctx, act, in)
	if err != nil {
		return Submission{}, errors.Wrap(err, "grading submission")
	}
	sub := &Submission{
		Activity:    act,
		Score:       res.Score,
		TotalPoints: res.TotalPoints,
		Grade:       res.Grade,
		Criteria:    res.Criteria,
		Feedback:    res.Feedback,
		Content:     in.Content,
		SubmittedAt: NowFunc().UTC(),
		History:     []Attempt{},
	}
	if prev, ok := wp.Submissions[act]; ok && prev != nil {
		sub.History = append(append(sub.History, prev.History...), prev.attempt())
	}
	wp.Submissions[act] = sub
	if wp.SelectedActivity == "" {
		wp.SelectedActivity = act
	}

	if _, err := svc.update(ctx, e); err != nil {
		return Submission{}, err
	}
	return *sub, nil
}

func (svc *Service) update(ctx context.Context, e Enrollment) (Enrollment, error) {
	e.UpdatedAt = NowFunc().UTC()
	e, err := svc.repo.UpdateEnrollment(ctx, e)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return e, nil
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := svc.Get(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteEnrollment(ctx, id)
}

// Progress aggregates the weeks of an enrollment.
func (svc *Service) Progress(e Enrollment) (progress.Summary, error) {
	sum, err := progress.Aggregate(Units(e))
	if err != nil {
		return progress.Summary{}, errors.Wrapf(err, "enrollment %s", e.ID)
	}
	return sum, nil
}
