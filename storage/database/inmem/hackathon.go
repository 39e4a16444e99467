package inmemdb

import (
	"context"
	"sort"

	"github.com/mohae/deepcopy"
	"github.com/volatiletech/null/v8"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
)

type hackathonRepository struct {
	db *hackathonTable
}

var _ hackathon.Repository = (*hackathonRepository)(nil) // interface compliance check

func NewHackathonRepository(db *DB) hackathon.Repository {
	return &hackathonRepository{db: db.hackathon}
}

func copyProgram(p hackathon.Program) hackathon.Program {
	return deepcopy.Copy(p).(hackathon.Program)
}

// Programs

func (repo *hackathonRepository) CreateProgram(_ context.Context, p hackathon.Program) (hackathon.Program, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p = copyProgram(p)
	repo.db.programs[p.ID] = &p
	return copyProgram(p), nil
}

func (repo *hackathonRepository) GetProgram(_ context.Context, id string) (hackathon.Program, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.programs[id]; ok {
		return copyProgram(*p), nil
	}
	return hackathon.Program{}, hackathon.ErrProgramNotFound
}

func (repo *hackathonRepository) QueryPrograms(_ context.Context, userID string) ([]hackathon.Program, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ps := make([]hackathon.Program, 0)
	for _, p := range repo.db.programs {
		if p.UserID == userID {
			ps = append(ps, copyProgram(*p))
		}
	}
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
	return ps, nil
}

func (repo *hackathonRepository) UpdateProgram(_ context.Context, p hackathon.Program) (hackathon.Program, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.programs[p.ID]; !ok {
		return hackathon.Program{}, hackathon.ErrProgramNotFound
	}
	p = copyProgram(p)
	repo.db.programs[p.ID] = &p
	return copyProgram(p), nil
}

func (repo *hackathonRepository) DeleteProgram(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.programs[id]; !ok {
		return hackathon.ErrProgramNotFound
	}
	delete(repo.db.programs, id)
	return nil
}

// Hub

func (repo *hackathonRepository) registration(userID, name string) (*hackathon.Registration, bool) {
	for _, r := range repo.db.registrations {
		if r.UserID == userID && r.HackathonName == name {
			return r, true
		}
	}
	return nil, false
}

func (repo *hackathonRepository) Register(_ context.Context, reg hackathon.Registration) (hackathon.Registration, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if r, ok := repo.registration(reg.UserID, reg.HackathonName); ok {
		return *r, nil
	}
	repo.db.regPK++
	reg.ID = repo.db.regPK
	reg.CreatedAt = reg.CreatedAt.UTC()
	repo.db.registrations[reg.ID] = &reg
	return reg, nil
}

func (repo *hackathonRepository) QueryRegistrations(_ context.Context, name string) ([]hackathon.Registration, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	regs := make([]hackathon.Registration, 0)
	for _, r := range repo.db.registrations {
		if r.HackathonName == name {
			regs = append(regs, *r)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (repo *hackathonRepository) CreateTeam(_ context.Context, t hackathon.Team) (hackathon.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.CreatedAt = t.CreatedAt.UTC()
	repo.db.teams[t.ID] = &t
	return t, nil
}

func (repo *hackathonRepository) GetTeam(_ context.Context, id string) (hackathon.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teams[id]; ok {
		return *t, nil
	}
	return hackathon.Team{}, hackathon.ErrTeamNotFound
}

func (repo *hackathonRepository) QueryTeams(_ context.Context, name string) ([]hackathon.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teams := make([]hackathon.Team, 0)
	for _, t := range repo.db.teams {
		if t.HackathonName == name {
			teams = append(teams, *t)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if !teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].CreatedAt.Before(teams[j].CreatedAt)
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

func (repo *hackathonRepository) JoinTeam(_ context.Context, userID, teamID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	team, ok := repo.db.teams[teamID]
	if !ok {
		return hackathon.ErrTeamNotFound
	}
	reg, ok := repo.registration(userID, team.HackathonName)
	if !ok {
		return hackathon.ErrRegistrationNotFound
	}
	if reg.TeamID.Valid && reg.TeamID.String == team.ID {
		return nil
	}

	var count int
	for _, r := range repo.db.registrations {
		if r.TeamID.Valid && r.TeamID.String == team.ID {
			count++
		}
	}
	if count >= team.MaxMembers {
		return hackathon.ErrTeamFull
	}
	reg.TeamID = null.StringFrom(team.ID)
	return nil
}

func (repo *hackathonRepository) LeaveTeam(_ context.Context, userID, name string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	reg, ok := repo.registration(userID, name)
	if !ok {
		return hackathon.ErrRegistrationNotFound
	}
	reg.TeamID = null.String{}
	return nil
}
