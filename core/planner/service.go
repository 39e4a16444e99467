package planner

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/prompt"
)

var NowFunc = time.Now // mockable

type Service struct {
	completer Completer
	catalog   *curriculum.Catalog
	store     Store
	validate  *validator.Validate
}

func NewService(completer Completer, catalog *curriculum.Catalog, store Store, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(completer, "completer"),
		vala.IsNotNil(store, "store"),
		func() (bool, string) { return catalog != nil, "catalog must be set" },
		func() (bool, string) { return validate != nil, "validate must be set" },
	).CheckAndPanic()

	return &Service{completer: completer, catalog: catalog, store: store, validate: validate}
}

func (svc *Service) complete(ctx context.Context, name string, data interface{}) (string, error) {
	p, err := prompt.Render(name, data)
	if err != nil {
		return "", err
	}
	raw, err := svc.completer.Complete(ctx, p)
	if err != nil {
		return "", errors.Wrapf(err, "completing %s prompt", name)
	}
	return raw, nil
}

// GeneratePlan asks the model for a 9-week plan on the topic. The plan is not saved.
func (svc *Service) GeneratePlan(ctx context.Context, req PlanRequest) (Plan, error) {
	if err := req.Validate(svc.validate); err != nil {
		return Plan{}, err
	}
	raw, err := svc.complete(ctx, prompt.Plan, req)
	if err != nil {
		return Plan{}, err
	}
	weeks, err := ParsePlan(raw, svc.validate)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		ID:        uuid.NewString(),
		Topic:     req.Topic,
		Weeks:     weeks,
		CreatedAt: NowFunc().UTC(),
	}, nil
}

// Recommend picks 3 or 4 catalog courses for the student.
func (svc *Service) Recommend(ctx context.Context, profile StudentProfile) ([]Idea, error) {
	if err := profile.Validate(svc.validate); err != nil {
		return nil, err
	}
	data := struct {
		Profile StudentProfile
		Courses []curriculum.PotentialCourse
	}{profile, svc.catalog.PotentialCourses()}

	raw, err := svc.complete(ctx, prompt.Ideas, data)
	if err != nil {
		return nil, err
	}
	return ParseIdeas(raw, svc.catalog, svc.validate)
}

func (svc *Service) SavePlan(ctx context.Context, userID string, p Plan) (Plan, error) {
	p.Topic = core.CleanString(p.Topic)
	if err := svc.validate.Struct(p); err != nil {
		return Plan{}, err
	}
	for _, w := range p.Weeks {
		if w.Kind != curriculum.Generated {
			return Plan{}, core.NewValidationError(nil, core.FieldError{Field: "weeks", Error: "only generated weeks can be saved"})
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = NowFunc().UTC()
	}
	if err := svc.store.SavePlan(ctx, userID, p); err != nil {
		return Plan{}, errors.Wrap(err, "saving plan")
	}
	return p, nil
}

func (svc *Service) Plans(ctx context.Context, userID string) ([]Plan, error) {
	return svc.store.ListPlans(ctx, userID)
}

func (svc *Service) Plan(ctx context.Context, userID, id string) (Plan, error) {
	return svc.store.GetPlan(ctx, userID, id)
}

// DeletePlan also clears the record entries pointing at the plan.
func (svc *Service) DeletePlan(ctx context.Context, userID, id string) error {
	if _, err := svc.store.GetPlan(ctx, userID, id); err != nil {
		return err
	}
	entries, err := svc.store.ListRecord(ctx, userID, 0)
	if err != nil {
		return errors.Wrap(err, "listing record")
	}
	for _, e := range entries {
		if e.PlanID != id {
			continue
		}
		if err := svc.store.DeleteRecordEntry(ctx, userID, e.SchoolYear, e.MarkingPeriod); err != nil {
			return errors.Wrap(err, "deleting record entry")
		}
	}
	return svc.store.DeletePlan(ctx, userID, id)
}

// SetRecordEntry assigns a saved plan to a marking period, replacing any previous one.
func (svc *Service) SetRecordEntry(ctx context.Context, userID string, e RecordEntry) (RecordEntry, error) {
	if err := e.Validate(svc.validate); err != nil {
		return RecordEntry{}, err
	}
	p, err := svc.store.GetPlan(ctx, userID, e.PlanID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return RecordEntry{}, core.NewValidationError(err, core.FieldError{Field: "plan_id", Error: "unknown plan"})
		}
		return RecordEntry{}, err
	}
	e.Title = p.Topic
	e.UpdatedAt = NowFunc().UTC()
	if err := svc.store.PutRecordEntry(ctx, userID, e); err != nil {
		return RecordEntry{}, errors.Wrap(err, "saving record entry")
	}
	return e, nil
}

func (svc *Service) ClearRecordEntry(ctx context.Context, userID string, year, period int) error {
	if period < 1 || period > 4 {
		return errors.Wrapf(core.ErrInvalidArgument, "marking period %d", period)
	}
	return svc.store.DeleteRecordEntry(ctx, userID, year, period)
}

// Record lists the academic record of a school year; 0 lists every year.
func (svc *Service) Record(ctx context.Context, userID string, year int) ([]RecordEntry, error) {
	return svc.store.ListRecord(ctx, userID, year)
}
