package curriculum

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

type (
	SubmissionInput struct {
		Content string `json:"content" validate:"required,notblank"`
	}

	Result struct {
		Score       int
		TotalPoints int
		Grade       string
		Criteria    []CriterionScore
		Feedback    string
	}

	Grader interface {
		Grade(ctx context.Context, act Activity, in SubmissionInput) (Result, error)
	}

	criterion struct {
		name string
		max  int
	}
)

var rubrics = map[Activity][]criterion{
	Builder: {
		{"Functionality", 40},
		{"Code Quality", 30},
		{"Testing", 30},
	},
	Communicator: {
		{"Content Quality", 30},
		{"Clarity & Organization", 25},
		{"Visual Aids", 20},
		{"Delivery", 15},
		{"Examples & Demonstrations", 10},
	},
}

// LetterGrade maps a percentage to A/B/C/D.
func LetterGrade(score, total int) string {
	if total <= 0 {
		return "D"
	}
	pct := float64(score) * 100 / float64(total)
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	default:
		return "D"
	}
}

// PlaceholderGrader scores submissions randomly within fixed ranges until a real grader is wired:
// academic tests score 80-99 out of 100, rubric criteria score 70-100% of their max.
type PlaceholderGrader struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPlaceholderGrader(rnd *rand.Rand) *PlaceholderGrader {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PlaceholderGrader{rnd: rnd}
}

func (g *PlaceholderGrader) intn(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

func (g *PlaceholderGrader) Grade(ctx context.Context, act Activity, _ SubmissionInput) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if act == Academic {
		score := g.intn(20) + 80
		return Result{
			Score:       score,
			TotalPoints: 100,
			Grade:       LetterGrade(score, 100),
			Feedback:    fmt.Sprintf("You answered %d%% of the test correctly.", score),
		}, nil
	}

	rubric, ok := rubrics[act]
	if !ok {
		return Result{}, ErrUnknownActivity
	}
	res := Result{Criteria: make([]CriterionScore, 0, len(rubric))}
	for _, c := range rubric {
		spread := (3*c.max + 9) / 10 // ceil(30%)
		score := g.intn(spread) + 7*c.max/10
		res.Criteria = append(res.Criteria, CriterionScore{Name: c.name, Score: score, Max: c.max})
		res.Score += score
		res.TotalPoints += c.max
	}
	res.Grade = LetterGrade(res.Score, res.TotalPoints)
	res.Feedback = fmt.Sprintf("Scored %d out of %d.", res.Score, res.TotalPoints)
	return res, nil
}
