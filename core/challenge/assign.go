package challenge

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/schoolday"
)

type ProblemType string

const (
	LeetCode   ProblemType = "leetcode"
	USACO      ProblemType = "usaco"
	Codeforces ProblemType = "codeforces"
)

var ProblemTypes = []ProblemType{LeetCode, USACO, Codeforces}

func ParseProblemType(s string) (ProblemType, error) {
	switch pt := ProblemType(core.CleanString(s, true /* lower */)); pt {
	case LeetCode, USACO, Codeforces:
		return pt, nil
	}
	return "", errors.Wrapf(core.ErrInvalidArgument, "unknown problem type %q", s)
}

const (
	// BatchSize is the number of items assigned per school week: 5 leetcode, 3 usaco, 5 codeforces.
	BatchSize         = 13
	usacoPerWeek      = 3
	codeforcesPerWeek = 5
	leetcodePerWeek   = schoolday.DaysPerWeek
)

// WeeklyPick locates the USACO problem of a given school day.
type WeeklyPick struct {
	WeekNumber   int     `json:"week_number"` // 0-based
	ContestIndex int     `json:"contest_index"`
	ProblemIndex int     `json:"problem_index"`
	Contest      string  `json:"contest"`
	Problem      Problem `json:"problem"`
}

// Item is one entry of a weekly batch.
type Item struct {
	Type          ProblemType `json:"type"`
	Title         string      `json:"title"`
	URL           string      `json:"url"`
	Difficulty    Difficulty  `json:"difficulty,omitempty"`
	Day           int         `json:"day"`
	ProblemNumber int         `json:"problem_number,omitempty"` // usaco only: 1..3
	Contest       string      `json:"contest,omitempty"`
}

func checkDay(day int) error {
	if day < 1 {
		return errors.Wrapf(core.ErrInvalidArgument, "school day %d", day)
	}
	return nil
}

// DailyAssignment returns the LeetCode problem of school day `day`: daily[(day-1) mod len].
func DailyAssignment(day int, daily []Problem) (Problem, error) {
	if err := checkDay(day); err != nil {
		return Problem{}, err
	}
	if len(daily) == 0 {
		return Problem{}, errors.Wrap(core.ErrInvalidConfiguration, "daily pool is empty")
	}
	return daily[(day-1)%len(daily)], nil
}

// WeeklyAssignment returns the USACO problem of school day `day`. The week's contest rotates
// through the pool; problem 1 on days 1-2 of the week, problem 2 on days 3-4, problem 3 on day 5.
func WeeklyAssignment(day int, weekly []Contest) (WeeklyPick, error) {
	if err := checkDay(day); err != nil {
		return WeeklyPick{}, err
	}
	if len(weekly) == 0 {
		return WeeklyPick{}, errors.Wrap(core.ErrInvalidConfiguration, "weekly pool is empty")
	}

	week := (day - 1) / schoolday.DaysPerWeek
	pick := WeeklyPick{
		WeekNumber:   week,
		ContestIndex: week % len(weekly),
	}
	switch (day - 1) % schoolday.DaysPerWeek {
	case 0, 1:
		pick.ProblemIndex = 0
	case 2, 3:
		pick.ProblemIndex = 1
	default:
		pick.ProblemIndex = 2
	}
	contest := weekly[pick.ContestIndex]
	pick.Contest = contest.Name
	pick.Problem = contest.Problems[pick.ProblemIndex]
	return pick, nil
}

// WeeklyBatch returns the 13 items of the 0-based school week `week`: the 5 daily LeetCode
// problems, the 3 problems of the week's USACO contest and 5 Codeforces problems.
func WeeklyBatch(week int, daily []Problem, weekly []Contest, codeforces []Problem) ([]Item, error) {
	if week < 0 {
		return nil, errors.Wrapf(core.ErrInvalidArgument, "week %d", week)
	}
	if len(codeforces) == 0 {
		return nil, errors.Wrap(core.ErrInvalidConfiguration, "codeforces pool is empty")
	}

	weekStart := week*schoolday.DaysPerWeek + 1
	items := make([]Item, 0, BatchSize)

	for day := weekStart; day < weekStart+leetcodePerWeek; day++ {
		p, err := DailyAssignment(day, daily)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Type: LeetCode, Title: p.Title, URL: p.URL, Difficulty: p.Difficulty, Day: day})
	}

	pick, err := WeeklyAssignment(weekStart, weekly)
	if err != nil {
		return nil, err
	}
	contest := weekly[pick.ContestIndex]
	for i := 0; i < usacoPerWeek; i++ {
		p := contest.Problems[i]
		items = append(items, Item{
			Type:          USACO,
			Title:         p.Title,
			URL:           p.URL,
			Difficulty:    p.Difficulty,
			Day:           weekStart,
			ProblemNumber: i + 1,
			Contest:       contest.Name,
		})
	}

	for day := weekStart; day < weekStart+codeforcesPerWeek; day++ {
		p := codeforces[(day-weekStart)%len(codeforces)]
		items = append(items, Item{Type: Codeforces, Title: p.Title, URL: p.URL, Difficulty: p.Difficulty, Day: day})
	}
	return items, nil
}

// Batch is WeeklyBatch over a Pools value.
func (p Pools) Batch(week int) ([]Item, error) {
	return WeeklyBatch(week, p.Daily, p.Weekly, p.Codeforces)
}

// Snapshot is what a student sees today.
type Snapshot struct {
	Date      string      `json:"date"` // YYYY-MM-DD
	SchoolDay int         `json:"school_day"`
	Week      int         `json:"week"` // 1-based; 0 before school starts
	Daily     *Problem    `json:"daily,omitempty"`
	Weekly    *WeeklyPick `json:"weekly,omitempty"`
}

// Today resolves today's problems. Before school starts SchoolDay is 0 and no problem is set.
func Today(cal schoolday.Calendar, pools Pools, now time.Time) (Snapshot, error) {
	day := cal.Today(now)
	snap := Snapshot{
		Date:      now.In(cal.Location).Format("2006-01-02"),
		SchoolDay: day,
		Week:      schoolday.WeekOf(day),
	}
	if day == 0 {
		return snap, nil
	}

	daily, err := DailyAssignment(day, pools.Daily)
	if err != nil {
		return Snapshot{}, err
	}
	weekly, err := WeeklyAssignment(day, pools.Weekly)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Daily = &daily
	snap.Weekly = &weekly
	return snap, nil
}
