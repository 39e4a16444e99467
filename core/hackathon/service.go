package hackathon

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

var NowFunc = time.Now // mockable

type Repository interface {
	CreateProgram(ctx context.Context, p Program) (Program, error)
	GetProgram(ctx context.Context, id string) (Program, error)
	QueryPrograms(ctx context.Context, userID string) ([]Program, error)
	UpdateProgram(ctx context.Context, p Program) (Program, error)
	DeleteProgram(ctx context.Context, id string) error

	// Register inserts the registration unless the user is already registered for the event, and
	// returns the stored one either way.
	Register(ctx context.Context, r Registration) (Registration, error)
	QueryRegistrations(ctx context.Context, hackathonName string) ([]Registration, error)
	CreateTeam(ctx context.Context, t Team) (Team, error)
	GetTeam(ctx context.Context, id string) (Team, error)
	QueryTeams(ctx context.Context, hackathonName string) ([]Team, error)
	// JoinTeam moves the user's registration for the team's event into the team. Fails with
	// ErrTeamFull if the team already has MaxMembers members.
	JoinTeam(ctx context.Context, userID, teamID string) error
	LeaveTeam(ctx context.Context, userID, hackathonName string) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		func() (bool, string) { return validate != nil, "validate must be set" },
	).CheckAndPanic()

	return &Service{repo: repo, validate: validate}
}

// Programs

func (svc *Service) CreateProgram(ctx context.Context, userID string, data ProgramData) (Program, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Program{}, err
	}
	now := NowFunc().UTC()
	p := Program{
		ID:          uuid.NewString(),
		UserID:      userID,
		Tracks:      []string{},
		TeamMembers: []TeamMember{},
		CurrentStep: StepDownloadTools,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	data.apply(&p)
	return svc.repo.CreateProgram(ctx, p)
}

func (svc *Service) Programs(ctx context.Context, userID string) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx, userID)
}

// Program returns the user's program; programs of other users are not found.
func (svc *Service) Program(ctx context.Context, userID, id string) (Program, error) {
	p, err := svc.repo.GetProgram(ctx, id)
	if err != nil {
		return Program{}, err
	}
	if p.UserID != userID {
		return Program{}, errors.Wrapf(ErrProgramNotFound, "%q", id)
	}
	return p, nil
}

func (svc *Service) UpdateProgram(ctx context.Context, userID, id string, data ProgramData) (Program, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Program{}, err
	}
	p, err := svc.Program(ctx, userID, id)
	if err != nil {
		return Program{}, err
	}
	data.apply(&p)
	p.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateProgram(ctx, p)
}

func (svc *Service) SetStep(ctx context.Context, userID, id string, step Step) (Program, error) {
	if !step.Valid() {
		return Program{}, errors.Wrapf(core.ErrInvalidArgument, "step %d", step)
	}
	p, err := svc.Program(ctx, userID, id)
	if err != nil {
		return Program{}, err
	}
	p.CurrentStep = step
	p.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateProgram(ctx, p)
}

func (svc *Service) DeleteProgram(ctx context.Context, userID, id string) error {
	if _, err := svc.Program(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteProgram(ctx, id)
}

func (svc *Service) Prompts(ctx context.Context, userID, id string) (Prompts, error) {
	p, err := svc.Program(ctx, userID, id)
	if err != nil {
		return Prompts{}, err
	}
	return RenderPrompts(p)
}

// Hub

func cleanEventName(name string) (string, error) {
	name = core.CleanString(name)
	if name == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: "hackathon_name", Error: "this field is required"})
	}
	return name, nil
}

// Register signs the user up for the event. Registering twice is a no-op.
func (svc *Service) Register(ctx context.Context, userID, userName, event string) (Registration, error) {
	event, err := cleanEventName(event)
	if err != nil {
		return Registration{}, err
	}
	return svc.repo.Register(ctx, Registration{
		UserID:        userID,
		UserName:      userName,
		HackathonName: event,
		CreatedAt:     NowFunc().UTC(),
	})
}

// CreateTeam creates a team for the event and puts its creator in it, registering them if needed.
func (svc *Service) CreateTeam(ctx context.Context, userID, userName, event string, nt NewTeam) (TeamView, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return TeamView{}, err
	}
	reg, err := svc.Register(ctx, userID, userName, event)
	if err != nil {
		return TeamView{}, err
	}

	if nt.Name == "" {
		nt.Name = userName + "'s Team"
	}
	if nt.MaxMembers == 0 {
		nt.MaxMembers = DefaultMaxMembers
	}
	team, err := svc.repo.CreateTeam(ctx, Team{
		ID:            uuid.NewString(),
		HackathonName: reg.HackathonName,
		Name:          nt.Name,
		CreatedBy:     userID,
		MaxMembers:    nt.MaxMembers,
		CreatedAt:     NowFunc().UTC(),
	})
	if err != nil {
		return TeamView{}, errors.Wrap(err, "creating team")
	}
	if err := svc.repo.JoinTeam(ctx, userID, team.ID); err != nil {
		return TeamView{}, errors.Wrap(err, "joining team")
	}
	return svc.teamView(ctx, team)
}

// JoinTeam moves the user into the team, registering them for its event if needed.
func (svc *Service) JoinTeam(ctx context.Context, userID, userName, teamID string) (TeamView, error) {
	team, err := svc.repo.GetTeam(ctx, teamID)
	if err != nil {
		return TeamView{}, err
	}
	if _, err := svc.Register(ctx, userID, userName, team.HackathonName); err != nil {
		return TeamView{}, err
	}
	if err := svc.repo.JoinTeam(ctx, userID, team.ID); err != nil {
		return TeamView{}, err
	}
	return svc.teamView(ctx, team)
}

func (svc *Service) LeaveTeam(ctx context.Context, userID, event string) error {
	event, err := cleanEventName(event)
	if err != nil {
		return err
	}
	return svc.repo.LeaveTeam(ctx, userID, event)
}

func (svc *Service) teamView(ctx context.Context, team Team) (TeamView, error) {
	ev, err := svc.Event(ctx, team.HackathonName)
	if err != nil {
		return TeamView{}, err
	}
	for _, tv := range ev.Teams {
		if tv.ID == team.ID {
			return tv, nil
		}
	}
	return TeamView{}, errors.Wrapf(ErrTeamNotFound, "%q", team.ID)
}

// Event lists the registrations & teams of a hackathon.
func (svc *Service) Event(ctx context.Context, name string) (Event, error) {
	name, err := cleanEventName(name)
	if err != nil {
		return Event{}, err
	}
	regs, err := svc.repo.QueryRegistrations(ctx, name)
	if err != nil {
		return Event{}, errors.Wrap(err, "querying registrations")
	}
	teams, err := svc.repo.QueryTeams(ctx, name)
	if err != nil {
		return Event{}, errors.Wrap(err, "querying teams")
	}
	return newEvent(name, regs, teams), nil
}
