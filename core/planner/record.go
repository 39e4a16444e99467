package planner

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

var ErrPlanNotFound = errors.Wrap(core.ErrNotFound, "plan not found")

type (
	// RecordEntry places a saved plan in one marking period of a school year.
	RecordEntry struct {
		SchoolYear    int       `json:"school_year" validate:"required,min=2000"`
		MarkingPeriod int       `json:"marking_period" validate:"required,min=1,max=4"`
		PlanID        string    `json:"plan_id" validate:"required"`
		Title         string    `json:"title"`
		UpdatedAt     time.Time `json:"updated_at"`
	}

	// Store keeps each student's saved plans & academic record.
	Store interface {
		SavePlan(ctx context.Context, userID string, p Plan) error
		GetPlan(ctx context.Context, userID, id string) (Plan, error)
		ListPlans(ctx context.Context, userID string) ([]Plan, error)
		DeletePlan(ctx context.Context, userID, id string) error

		PutRecordEntry(ctx context.Context, userID string, e RecordEntry) error
		DeleteRecordEntry(ctx context.Context, userID string, year, period int) error
		ListRecord(ctx context.Context, userID string, year int) ([]RecordEntry, error)
	}
)

func (re *RecordEntry) Validate(validate *validator.Validate) error {
	re.PlanID = core.CleanString(re.PlanID)
	return validate.Struct(re)
}
