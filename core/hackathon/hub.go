package hackathon

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

const DefaultMaxMembers = 4

var (
	ErrTeamNotFound         = errors.Wrap(core.ErrNotFound, "team not found")
	ErrRegistrationNotFound = errors.Wrap(core.ErrNotFound, "registration not found")
	ErrTeamFull             = errors.New("this team is full")
)

type (
	Registration struct {
		ID            int         `json:"id"`
		UserID        string      `json:"user_id"`
		UserName      string      `json:"user_name"`
		HackathonName string      `json:"hackathon_name"`
		TeamID        null.String `json:"team_id"`
		CreatedAt     time.Time   `json:"created_at"`
	}

	Team struct {
		ID            string    `json:"id"`
		HackathonName string    `json:"hackathon_name"`
		Name          string    `json:"name"`
		CreatedBy     string    `json:"created_by"`
		MaxMembers    int       `json:"max_members"`
		CreatedAt     time.Time `json:"created_at"`
	}

	TeamView struct {
		Team
		Members    []Registration `json:"members"`
		EmptySpots int            `json:"empty_spots"`
	}

	// Event is everything the hub shows for one hackathon.
	Event struct {
		Name          string         `json:"name"`
		Registrations []Registration `json:"registrations"`
		Teams         []TeamView     `json:"teams"`
	}

	NewTeam struct {
		Name       string `json:"name" validate:"omitempty,max=255"`
		MaxMembers int    `json:"max_members" validate:"omitempty,min=1,max=10"`
	}
)

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	return validate.Struct(nt)
}

func newEvent(name string, regs []Registration, teams []Team) Event {
	ev := Event{Name: name, Registrations: regs, Teams: make([]TeamView, 0, len(teams))}
	if ev.Registrations == nil {
		ev.Registrations = []Registration{}
	}
	for _, t := range teams {
		tv := TeamView{Team: t, Members: []Registration{}}
		for _, r := range regs {
			if r.TeamID.Valid && r.TeamID.String == t.ID {
				tv.Members = append(tv.Members, r)
			}
		}
		if spots := t.MaxMembers - len(tv.Members); spots > 0 {
			tv.EmptySpots = spots
		}
		ev.Teams = append(ev.Teams, tv)
	}
	return ev
}
