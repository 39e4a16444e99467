// Package inmemdb keeps every repository in process memory. It backs the mock backend & tests.
package inmemdb

import (
	"sync"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type (
	DB struct {
		user      *userTable
		activity  *activityTable
		course    *courseTable
		hackathon *hackathonTable
		planner   *plannerTable
	}

	userTable struct {
		sync.RWMutex
		table    map[string]*user.User
		profiles map[string]user.Profile
	}

	activityTable struct {
		sync.RWMutex
		pk    int
		table map[int]*challenge.Activity
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*curriculum.Enrollment
	}

	hackathonTable struct {
		sync.RWMutex
		regPK         int
		programs      map[string]*hackathon.Program
		registrations map[int]*hackathon.Registration
		teams         map[string]*hackathon.Team
	}

	plannerTable struct {
		sync.RWMutex
		plans   map[string]map[string]planner.Plan           // {userID: {planID: Plan}}
		records map[string]map[recordKey]planner.RecordEntry // {userID: {(year, period): RecordEntry}}
	}

	recordKey struct {
		year   int
		period int
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{
			table:    make(map[string]*user.User),
			profiles: make(map[string]user.Profile),
		},
		activity: &activityTable{table: make(map[int]*challenge.Activity)},
		course:   &courseTable{table: make(map[string]*curriculum.Enrollment)},
		hackathon: &hackathonTable{
			programs:      make(map[string]*hackathon.Program),
			registrations: make(map[int]*hackathon.Registration),
			teams:         make(map[string]*hackathon.Team),
		},
		planner: &plannerTable{
			plans:   make(map[string]map[string]planner.Plan),
			records: make(map[string]map[recordKey]planner.RecordEntry),
		},
	}
}
