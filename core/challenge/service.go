package challenge

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/schoolday"
)

var (
	NowFunc = time.Now // mockable

	errNotAssigned = errors.New("problem is not assigned this week")
	errBadStatus   = errors.New("unknown status")
)

type (
	// TrackedItem is a batch item annotated with the student's status.
	TrackedItem struct {
		Item
		Status    progress.Status `json:"status"`
		UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	}

	WeekView struct {
		Week       int              `json:"week"`
		SchoolYear int              `json:"school_year"`
		Items      []TrackedItem    `json:"items"`
		Progress   progress.Summary `json:"progress"`
	}

	WeekSummary struct {
		Week int `json:"week"`
		progress.Summary
		Statuses map[progress.Status]int `json:"statuses"`
	}

	// StatusUpdate identifies one problem of a week and, for SetStatus, its new status.
	StatusUpdate struct {
		Week         int    `json:"week" validate:"required,min=1"`
		SchoolYear   int    `json:"school_year" validate:"omitempty,min=2000"`
		ProblemType  string `json:"problem_type" validate:"required"`
		ProblemTitle string `json:"problem_title" validate:"required"`
		Status       string `json:"status"`
	}
)

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.ProblemType = core.CleanString(su.ProblemType, true /* lower */)
	su.ProblemTitle = core.CleanString(su.ProblemTitle)
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

// Units adapts tracked items to progress units: a completed problem is its own outcome.
func Units(items []TrackedItem) []progress.Unit {
	units := make([]progress.Unit, 0, len(items))
	for _, it := range items {
		units = append(units, progress.Unit{Status: it.Status, Outcome: true})
	}
	return units
}

type Service struct {
	repo  Repository
	cal   schoolday.Calendar
	pools Pools
}

func NewService(repo Repository, cal schoolday.Calendar, pools Pools) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		func() (bool, string) { return cal.Location != nil, "calendar location must be set" },
	).CheckAndPanic()

	return &Service{repo: repo, cal: cal, pools: pools}
}

func (svc *Service) Calendar() schoolday.Calendar { return svc.cal }

func (svc *Service) Pools() Pools { return svc.pools }

func (svc *Service) Today() (Snapshot, error) {
	return Today(svc.cal, svc.pools, NowFunc())
}

// CurrentWeek is the 1-based school week of today; 0 before school starts.
func (svc *Service) CurrentWeek() int {
	return svc.cal.CurrentWeek(NowFunc())
}

// Batch returns the items of the 1-based school week.
func (svc *Service) Batch(week int) ([]Item, error) {
	if week < 1 {
		return nil, errors.Wrapf(core.ErrInvalidArgument, "week %d", week)
	}
	return svc.pools.Batch(week - 1)
}

func (svc *Service) schoolYear(year int) int {
	if year == 0 {
		return svc.cal.SchoolYear()
	}
	return year
}

// resolve finds the batch item su points to.
func (svc *Service) resolve(su StatusUpdate) (Item, error) {
	if su.Week < 1 {
		return Item{}, core.NewValidationError(nil, core.FieldError{Field: "week", Error: "week must be 1 or greater"})
	}
	ptype, err := ParseProblemType(su.ProblemType)
	if err != nil {
		return Item{}, core.NewValidationError(err, core.FieldError{Field: "problem_type", Error: "unknown problem type"})
	}
	items, err := svc.Batch(su.Week)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.Type == ptype && it.Title == su.ProblemTitle {
			return it, nil
		}
	}
	return Item{}, core.NewValidationError(errNotAssigned, core.FieldError{Field: "problem_title", Error: errNotAssigned.Error()})
}

func (svc *Service) save(ctx context.Context, userID string, su StatusUpdate, it Item, st progress.Status) (Activity, error) {
	act := Activity{
		UserID:       userID,
		WeekNumber:   su.Week,
		SchoolYear:   svc.schoolYear(su.SchoolYear),
		ProblemType:  it.Type,
		ProblemTitle: it.Title,
		ProblemURL:   it.URL,
		Status:       st,
		UpdatedAt:    NowFunc().UTC(),
	}
	act, err := svc.repo.UpsertActivity(ctx, act)
	if err != nil {
		return Activity{}, errors.Wrap(err, "upserting activity")
	}
	return act, nil
}

// SetStatus records the student's status on one problem of a week.
func (svc *Service) SetStatus(ctx context.Context, userID string, su StatusUpdate) (Activity, error) {
	st, err := progress.ParseStatus(su.Status)
	if err != nil {
		return Activity{}, core.NewValidationError(err, core.FieldError{Field: "status", Error: errBadStatus.Error()})
	}
	it, err := svc.resolve(su)
	if err != nil {
		return Activity{}, err
	}
	return svc.save(ctx, userID, su, it, st)
}

// Advance moves the problem to the next status of the UI cycle.
func (svc *Service) Advance(ctx context.Context, userID string, su StatusUpdate) (Activity, error) {
	it, err := svc.resolve(su)
	if err != nil {
		return Activity{}, err
	}
	acts, err := svc.repo.QueryActivities(ctx, ActivityFilter{
		UserIDs:    []string{userID},
		SchoolYear: svc.schoolYear(su.SchoolYear),
		WeekNumber: su.Week,
	})
	if err != nil {
		return Activity{}, errors.Wrap(err, "querying activities")
	}

	current := progress.NotAttempted
	key := activityKey{su.Week, it.Type, it.Title}
	for _, a := range acts {
		if a.key() == key {
			current = a.Status
			break
		}
	}
	return svc.save(ctx, userID, su, it, current.Next())
}

func track(items []Item, acts []Activity, week int) []TrackedItem {
	byKey := make(map[activityKey]Activity, len(acts))
	for _, a := range acts {
		byKey[a.key()] = a
	}
	tracked := make([]TrackedItem, 0, len(items))
	for _, it := range items {
		ti := TrackedItem{Item: it, Status: progress.NotAttempted}
		if a, ok := byKey[activityKey{week, it.Type, it.Title}]; ok {
			ti.Status = a.Status
			updatedAt := a.UpdatedAt
			ti.UpdatedAt = &updatedAt
		}
		tracked = append(tracked, ti)
	}
	return tracked
}

// Week returns the 13 items of the 1-based week with the student's statuses and the week's progress.
func (svc *Service) Week(ctx context.Context, userID string, week, year int) (WeekView, error) {
	items, err := svc.Batch(week)
	if err != nil {
		return WeekView{}, err
	}
	year = svc.schoolYear(year)
	acts, err := svc.repo.QueryActivities(ctx, ActivityFilter{UserIDs: []string{userID}, SchoolYear: year, WeekNumber: week})
	if err != nil {
		return WeekView{}, errors.Wrap(err, "querying activities")
	}

	tracked := track(items, acts, week)
	sum, err := progress.Aggregate(Units(tracked))
	if err != nil {
		return WeekView{}, errors.Wrap(err, "aggregating week progress")
	}
	return WeekView{Week: week, SchoolYear: year, Items: tracked, Progress: sum}, nil
}

// History returns the progress of weeks 1..throughWeek, oldest first.
func (svc *Service) History(ctx context.Context, userID string, year, throughWeek int) ([]WeekSummary, error) {
	hist, err := svc.Overview(ctx, []string{userID}, year, throughWeek)
	if err != nil {
		return nil, err
	}
	return hist[userID], nil
}

// Overview returns the weekly history of several students at once (admin dashboard).
func (svc *Service) Overview(ctx context.Context, userIDs []string, year, throughWeek int) (map[string][]WeekSummary, error) {
	out := make(map[string][]WeekSummary, len(userIDs))
	for _, id := range userIDs {
		out[id] = []WeekSummary{}
	}
	if throughWeek < 1 || len(userIDs) == 0 {
		return out, nil
	}

	acts, err := svc.repo.QueryActivities(ctx, ActivityFilter{
		UserIDs:    userIDs,
		SchoolYear: svc.schoolYear(year),
		FromWeek:   1,
		ToWeek:     throughWeek,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	byUser := make(map[string][]Activity, len(userIDs))
	for _, a := range acts {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	for week := 1; week <= throughWeek; week++ {
		items, err := svc.Batch(week)
		if err != nil {
			return nil, err
		}
		for _, id := range userIDs {
			units := Units(track(items, byUser[id], week))
			sum, err := progress.Aggregate(units)
			if err != nil {
				return nil, errors.Wrapf(err, "aggregating week %d progress", week)
			}
			counts, err := progress.Counts(units)
			if err != nil {
				return nil, errors.Wrapf(err, "counting week %d statuses", week)
			}
			out[id] = append(out[id], WeekSummary{Week: week, Summary: sum, Statuses: counts})
		}
	}
	return out, nil
}
