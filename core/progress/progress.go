// Package progress aggregates tracked units (challenge problems, course weeks) into a completion summary.
package progress

import (
	"math"

	"github.com/pkg/errors"
)

type Status string

const (
	NotAttempted Status = "not_attempted"
	Viewed       Status = "viewed"
	Completed    Status = "completed"
)

var (
	ErrUnknownStatus = errors.New("unknown status")

	Statuses = []Status{NotAttempted, Viewed, Completed}
)

// ParseStatus never coerces: anything outside Statuses is ErrUnknownStatus.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case NotAttempted, Viewed, Completed:
		return st, nil
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Next returns the status following s in the UI cycle not_attempted -> viewed -> completed -> not_attempted.
func (s Status) Next() Status {
	switch s {
	case NotAttempted:
		return Viewed
	case Viewed:
		return Completed
	default:
		return NotAttempted
	}
}

// Unit is one tracked item. Outcome reports whether the item's work product exists
// (always true for challenge problems; a submission for course weeks).
type Unit struct {
	Status  Status
	Outcome bool
}

type Summary struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Aggregate counts the completed units; Percentage is rounded half away from zero and 0 for no units.
func Aggregate(units []Unit) (Summary, error) {
	sum := Summary{Total: len(units)}
	for _, u := range units {
		if !u.Status.Valid() {
			return Summary{}, errors.Wrapf(ErrUnknownStatus, "%q", u.Status)
		}
		if u.Status == Completed && u.Outcome {
			sum.Completed++
		}
	}
	sum.Percentage = Percentage(sum.Completed, sum.Total)
	return sum, nil
}

func Percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Counts tallies units per status. Every known status is present; an unknown one is ErrUnknownStatus.
func Counts(units []Unit) (map[Status]int, error) {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, u := range units {
		if !u.Status.Valid() {
			return nil, errors.Wrapf(ErrUnknownStatus, "%q", u.Status)
		}
		counts[u.Status]++
	}
	return counts, nil
}
