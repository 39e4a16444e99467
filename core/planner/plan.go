package planner

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
)

const MaxPlanWeeks = 9

type (
	// Plan is a generated study plan. It is only persisted once the student saves it.
	Plan struct {
		ID        string            `json:"id"`
		Topic     string            `json:"topic" validate:"required,notblank"`
		Weeks     []curriculum.Week `json:"weeks" validate:"required,min=1,max=9"`
		CreatedAt time.Time         `json:"created_at"`
	}

	PlanRequest struct {
		Topic string `json:"topic" validate:"required,notblank,max=200"`
	}

	generatedPlan struct {
		Weeks []curriculum.GeneratedWeek `validate:"min=1,max=9,dive"`
	}

	// Completer sends a prompt to a generative model and returns the raw text answer.
	Completer interface {
		Complete(ctx context.Context, prompt string) (string, error)
	}
)

func (pr *PlanRequest) Validate(validate *validator.Validate) error {
	pr.Topic = core.CleanString(pr.Topic)
	return validate.Struct(pr)
}

// ParsePlan turns the model answer into normalized weeks.
func ParsePlan(raw string, validate *validator.Validate) ([]curriculum.Week, error) {
	var gp generatedPlan
	if err := decodeItems(raw, "weeks", &gp.Weeks); err != nil {
		return nil, malformed(raw, "decoding weeks: %v", err)
	}
	if err := validate.Struct(gp); err != nil {
		return nil, malformed(raw, "invalid weeks: %v", err)
	}
	weeks, err := curriculum.NormalizeGenerated(gp.Weeks)
	if err != nil {
		return nil, malformed(raw, "%v", err)
	}
	return weeks, nil
}
