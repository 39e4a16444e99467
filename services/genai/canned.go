package genai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
)

// CannedCompleter answers every prompt with the same document, which carries both a 9-week plan
// ("weeks") and course recommendations taken from the catalog ("ideas").
type CannedCompleter struct {
	answer string
}

var _ planner.Completer = (*CannedCompleter)(nil) // interface compliance check

func NewCannedCompleter(catalog *curriculum.Catalog) (*CannedCompleter, error) {
	type (
		activities struct {
			Project      string `json:"project"`
			Test         string `json:"test"`
			Presentation string `json:"presentation"`
		}
		week struct {
			Week        int                   `json:"week"`
			Topic       string                `json:"topic"`
			Description string                `json:"description"`
			Resources   []curriculum.Resource `json:"resources"`
			Activities  activities            `json:"activities"`
		}
		idea struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		}
	)

	doc := struct {
		Weeks []week `json:"weeks"`
		Ideas []idea `json:"ideas"`
	}{}
	for i := 1; i <= planner.MaxPlanWeeks; i++ {
		doc.Weeks = append(doc.Weeks, week{
			Week:        i,
			Topic:       fmt.Sprintf("Week %d fundamentals", i),
			Description: "Study the core ideas of the week and practice them.",
			Resources: []curriculum.Resource{
				{Title: "CS50", URL: "https://cs50.harvard.edu/x/", Type: "course"},
			},
			Activities: activities{
				Project:      "Build a small program using this week's ideas.",
				Test:         "Answer ten questions on this week's ideas.",
				Presentation: "Explain this week's ideas to the club in five minutes.",
			},
		})
	}
	for _, c := range catalog.PotentialCourses() {
		doc.Ideas = append(doc.Ideas, idea{Title: c.Title, Description: c.Description, Tags: []string{}})
		if len(doc.Ideas) == 4 {
			break
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding canned answer")
	}
	return &CannedCompleter{answer: "```json\n" + string(b) + "\n```"}, nil
}

func (c *CannedCompleter) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.answer, nil
}
