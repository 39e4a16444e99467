package planner

import (
	"github.com/go-playground/validator/v10"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
)

const maxIdeas = 4

type (
	Interest struct {
		Name  string `json:"name" validate:"required"`
		Score int    `json:"score" validate:"min=1,max=10"`
	}

	// StudentProfile is what the student tells the recommender about themselves.
	StudentProfile struct {
		MathCourses string     `json:"math_courses"`
		APCSAScore  string     `json:"apcsa_score" validate:"omitempty,oneof=1 2 3 4 5"`
		SATMath     string     `json:"sat_math" validate:"omitempty,numeric"`
		PastStudies string     `json:"past_studies"`
		Interests   []Interest `json:"interests" validate:"dive"`
	}

	// Idea is a recommended catalog course.
	Idea struct {
		Slug        string                `json:"slug"`
		Title       string                `json:"title" validate:"required"`
		Description string                `json:"description"`
		Difficulty  curriculum.Difficulty `json:"difficulty"`
		Tags        []string              `json:"tags"`
		Type        string                `json:"type"`
	}

	generatedIdeas struct {
		Ideas []Idea `validate:"min=1,dive"`
	}
)

func (sp *StudentProfile) Validate(validate *validator.Validate) error {
	sp.MathCourses = core.CleanString(sp.MathCourses)
	sp.APCSAScore = core.CleanString(sp.APCSAScore)
	sp.SATMath = core.CleanString(sp.SATMath)
	sp.PastStudies = core.CleanString(sp.PastStudies)
	return validate.Struct(sp)
}

// ParseIdeas keeps the recommended courses that exist in the catalog, at most 4.
func ParseIdeas(raw string, catalog *curriculum.Catalog, validate *validator.Validate) ([]Idea, error) {
	var gi generatedIdeas
	if err := decodeItems(raw, "ideas", &gi.Ideas); err != nil {
		return nil, malformed(raw, "decoding ideas: %v", err)
	}
	if err := validate.Struct(gi); err != nil {
		return nil, malformed(raw, "invalid ideas: %v", err)
	}

	ideas := make([]Idea, 0, maxIdeas)
	seen := make(map[string]bool, len(gi.Ideas))
	for _, idea := range gi.Ideas {
		course, ok := catalog.FindByTitle(idea.Title)
		if !ok || seen[course.Slug] {
			continue
		}
		seen[course.Slug] = true
		idea.Slug = course.Slug
		idea.Title = course.Title
		idea.Difficulty = course.Difficulty
		idea.Type = "premade"
		if idea.Tags == nil {
			idea.Tags = []string{}
		}
		ideas = append(ideas, idea)
		if len(ideas) == maxIdeas {
			break
		}
	}
	if len(ideas) == 0 {
		return nil, malformed(raw, "no recommended course is in the catalog")
	}
	return ideas, nil
}
