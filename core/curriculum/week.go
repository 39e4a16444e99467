package curriculum

import (
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

// Activity is one of the three "Ellis activities" a student picks each week.
type Activity string

const (
	Builder      Activity = "builder"
	Academic     Activity = "academic"
	Communicator Activity = "communicator"
)

var (
	Activities = []Activity{Builder, Academic, Communicator}

	ErrUnknownActivity = errors.New("unknown activity")
)

func ParseActivity(s string) (Activity, error) {
	switch a := Activity(core.CleanString(s, true /* lower */)); a {
	case Builder, Academic, Communicator:
		return a, nil
	}
	return "", errors.Wrapf(ErrUnknownActivity, "%q", s)
}

type Kind string

const (
	Curated   Kind = "curated"
	Generated Kind = "generated"
)

type Resource struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Type  string `json:"type,omitempty"`
}

type Deliverable struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Guidelines  []string `json:"guidelines,omitempty"`
}

// Week is the normalized content of one course week, whatever its origin. Every week offers a
// Deliverable for each Activity.
type Week struct {
	Kind        Kind                     `json:"kind"`
	Number      int                      `json:"week"`
	Topic       string                   `json:"topic"`
	Description string                   `json:"description"`
	Deliverable string                   `json:"deliverable,omitempty"` // curated weeks with a single deliverable
	Resources   []Resource               `json:"resources"`
	Activities  map[Activity]Deliverable `json:"activities"`
}

func (w Week) Option(a Activity) (Deliverable, bool) {
	d, ok := w.Activities[a]
	return d, ok
}

type (
	rawDeliverable struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Guidelines  []string `json:"guidelines"`
	}

	rawCuratedWeek struct {
		Week         int                         `json:"week"`
		Topic        string                      `json:"topic"`
		Description  string                      `json:"description"`
		Resources    []Resource                  `json:"resources"`
		Deliverables map[Activity]rawDeliverable `json:"deliverables"`
		Deliverable  string                      `json:"deliverable"`
	}

	// RawCourse is a course as stored in the curated catalog file.
	RawCourse struct {
		Title           string                      `json:"title"`
		Description     string                      `json:"description"`
		Tier            int                         `json:"tier"`
		Prereqs         []string                    `json:"prereqs"`
		Track           string                      `json:"track"`
		Weeks           []rawCuratedWeek            `json:"weeks"`
		EllisActivities map[Activity]rawDeliverable `json:"ellis_activities"`
	}

	// GeneratedWeek is a plan week as produced by the AI assistant.
	GeneratedWeek struct {
		Week        int        `json:"week"`
		Topic       string     `json:"topic" validate:"required"`
		Description string     `json:"description"`
		Resources   []Resource `json:"resources" validate:"dive"`
		Activities  struct {
			Project      string `json:"project" validate:"required"`
			Test         string `json:"test" validate:"required"`
			Presentation string `json:"presentation" validate:"required"`
		} `json:"activities"`
	}
)

func deliverable(raw rawDeliverable) Deliverable {
	return Deliverable{Title: raw.Title, Description: raw.Description, Guidelines: raw.Guidelines}
}

func invalidCourse(title, format string, args ...interface{}) error {
	return errors.Wrapf(core.ErrInvalidConfiguration, "course %q: "+format, append([]interface{}{title}, args...)...)
}

// NormalizeCurated turns a catalog course's weeks into Weeks. A week either carries its own
// deliverables for all three activities, or a single deliverable string with the course-level
// ellis activities as options.
func NormalizeCurated(raw RawCourse) ([]Week, error) {
	if len(raw.Weeks) == 0 {
		return nil, invalidCourse(raw.Title, "no weeks")
	}
	weeks := make([]Week, 0, len(raw.Weeks))
	for i, rw := range raw.Weeks {
		w := Week{
			Kind:        Curated,
			Number:      rw.Week,
			Topic:       rw.Topic,
			Description: rw.Description,
			Deliverable: rw.Deliverable,
			Resources:   rw.Resources,
			Activities:  make(map[Activity]Deliverable, len(Activities)),
		}
		if w.Number == 0 {
			w.Number = i + 1
		}
		if w.Resources == nil {
			w.Resources = []Resource{}
		}

		source := rw.Deliverables
		if len(source) == 0 {
			source = raw.EllisActivities
		}
		for _, a := range Activities {
			d, ok := source[a]
			if !ok || d.Title == "" {
				return nil, invalidCourse(raw.Title, "week %d: missing %s activity", w.Number, a)
			}
			w.Activities[a] = deliverable(d)
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

// NormalizeGenerated turns AI plan weeks into Weeks. project/test/presentation map to
// builder/academic/communicator.
func NormalizeGenerated(raw []GeneratedWeek) ([]Week, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(core.ErrInvalidArgument, "plan has no weeks")
	}
	weeks := make([]Week, 0, len(raw))
	for i, rw := range raw {
		num := rw.Week
		if num == 0 {
			num = i + 1
		}
		resources := rw.Resources
		if resources == nil {
			resources = []Resource{}
		}
		weeks = append(weeks, Week{
			Kind:        Generated,
			Number:      num,
			Topic:       rw.Topic,
			Description: rw.Description,
			Resources:   resources,
			Activities: map[Activity]Deliverable{
				Builder:      {Title: "Project", Description: rw.Activities.Project},
				Academic:     {Title: "Test", Description: rw.Activities.Test},
				Communicator: {Title: "Presentation", Description: rw.Activities.Presentation},
			},
		})
	}
	return weeks, nil
}
