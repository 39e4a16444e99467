package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
)

const (
	programColumns      = "id, user_id, name, date, tracks, team_members, current_step, finalized_idea, master_document, info, created_at, updated_at"
	registrationColumns = "id, user_id, hackathon_name, user_name, team_id, created_at"
	teamColumns         = "id, hackathon_name, name, created_by, max_members, created_at"
)

type (
	programRow struct {
		ID             string    `db:"id"`
		UserID         string    `db:"user_id"`
		Name           string    `db:"name"`
		Date           string    `db:"date"`
		Tracks         string    `db:"tracks"`
		TeamMembers    string    `db:"team_members"`
		CurrentStep    int       `db:"current_step"`
		FinalizedIdea  string    `db:"finalized_idea"`
		MasterDocument string    `db:"master_document"`
		Info           string    `db:"info"`
		CreatedAt      time.Time `db:"created_at"`
		UpdatedAt      time.Time `db:"updated_at"`
	}

	registrationRow struct {
		ID            int         `db:"id"`
		UserID        string      `db:"user_id"`
		HackathonName string      `db:"hackathon_name"`
		UserName      string      `db:"user_name"`
		TeamID        null.String `db:"team_id"`
		CreatedAt     time.Time   `db:"created_at"`
	}

	teamRow struct {
		ID            string    `db:"id"`
		HackathonName string    `db:"hackathon_name"`
		Name          string    `db:"name"`
		CreatedBy     string    `db:"created_by"`
		MaxMembers    int       `db:"max_members"`
		CreatedAt     time.Time `db:"created_at"`
	}
)

func (row programRow) toProgram() (hackathon.Program, error) {
	p := hackathon.Program{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		Date:           row.Date,
		Tracks:         []string{},
		TeamMembers:    []hackathon.TeamMember{},
		CurrentStep:    hackathon.Step(row.CurrentStep),
		FinalizedIdea:  row.FinalizedIdea,
		MasterDocument: row.MasterDocument,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
	if err := fromJSON(row.Tracks, &p.Tracks); err != nil {
		return hackathon.Program{}, errors.Wrap(err, "decoding tracks")
	}
	if err := fromJSON(row.TeamMembers, &p.TeamMembers); err != nil {
		return hackathon.Program{}, errors.Wrap(err, "decoding team members")
	}
	if err := fromJSON(row.Info, &p.Info); err != nil {
		return hackathon.Program{}, errors.Wrap(err, "decoding info")
	}
	return p, nil
}

func newProgramRow(p hackathon.Program) (programRow, error) {
	row := programRow{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Date:           p.Date,
		CurrentStep:    int(p.CurrentStep),
		FinalizedIdea:  p.FinalizedIdea,
		MasterDocument: p.MasterDocument,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
	var err error
	if p.Tracks == nil {
		p.Tracks = []string{}
	}
	if p.TeamMembers == nil {
		p.TeamMembers = []hackathon.TeamMember{}
	}
	if row.Tracks, err = toJSON(p.Tracks); err != nil {
		return programRow{}, errors.Wrap(err, "encoding tracks")
	}
	if row.TeamMembers, err = toJSON(p.TeamMembers); err != nil {
		return programRow{}, errors.Wrap(err, "encoding team members")
	}
	if row.Info, err = toJSON(p.Info); err != nil {
		return programRow{}, errors.Wrap(err, "encoding info")
	}
	return row, nil
}

func (row registrationRow) toRegistration() hackathon.Registration {
	return hackathon.Registration{
		ID:            row.ID,
		UserID:        row.UserID,
		UserName:      row.UserName,
		HackathonName: row.HackathonName,
		TeamID:        row.TeamID,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

func (row teamRow) toTeam() hackathon.Team {
	return hackathon.Team{
		ID:            row.ID,
		HackathonName: row.HackathonName,
		Name:          row.Name,
		CreatedBy:     row.CreatedBy,
		MaxMembers:    row.MaxMembers,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

type hackathonRepository struct {
	repo
}

var _ hackathon.Repository = (*hackathonRepository)(nil) // interface compliance check

func NewHackathonRepository(exec core.DBExecutor) *hackathonRepository {
	return &hackathonRepository{repo{exec: exec}}
}

// Programs

func (r hackathonRepository) CreateProgram(ctx context.Context, p hackathon.Program) (hackathon.Program, error) {
	row, err := newProgramRow(p)
	if err != nil {
		return hackathon.Program{}, err
	}
	q := `INSERT INTO hackathon_programs (` + programColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := execute(ctx, r.exec, q,
		row.ID, row.UserID, row.Name, row.Date, row.Tracks, row.TeamMembers, row.CurrentStep,
		row.FinalizedIdea, row.MasterDocument, row.Info, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return hackathon.Program{}, errors.Wrap(err, "inserting hackathon program")
	}
	return row.toProgram()
}

func (r hackathonRepository) GetProgram(ctx context.Context, id string) (hackathon.Program, error) {
	var row programRow
	q := "SELECT " + programColumns + " FROM hackathon_programs WHERE id = ?"
	if err := get(ctx, r.exec, &row, q, id); err != nil {
		return hackathon.Program{}, trapNoRowsErr(err, hackathon.ErrProgramNotFound, "finding hackathon program")
	}
	return row.toProgram()
}

func (r hackathonRepository) QueryPrograms(ctx context.Context, userID string) ([]hackathon.Program, error) {
	var rows []programRow
	q := "SELECT " + programColumns + " FROM hackathon_programs WHERE user_id = ? ORDER BY created_at DESC, id"
	if err := sel(ctx, r.exec, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying hackathon programs")
	}
	ps := make([]hackathon.Program, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProgram()
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func (r hackathonRepository) UpdateProgram(ctx context.Context, p hackathon.Program) (hackathon.Program, error) {
	row, err := newProgramRow(p)
	if err != nil {
		return hackathon.Program{}, err
	}
	q := `UPDATE hackathon_programs
	SET name = ?, date = ?, tracks = ?, team_members = ?, current_step = ?, finalized_idea = ?,
		master_document = ?, info = ?, updated_at = ?
	WHERE id = ?`
	n, err := execute(ctx, r.exec, q,
		row.Name, row.Date, row.Tracks, row.TeamMembers, row.CurrentStep, row.FinalizedIdea,
		row.MasterDocument, row.Info, row.UpdatedAt, row.ID,
	)
	if err != nil {
		return hackathon.Program{}, errors.Wrap(err, "updating hackathon program")
	}
	if n == 0 {
		return hackathon.Program{}, hackathon.ErrProgramNotFound
	}
	return row.toProgram()
}

func (r hackathonRepository) DeleteProgram(ctx context.Context, id string) error {
	n, err := execute(ctx, r.exec, "DELETE FROM hackathon_programs WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting hackathon program")
	}
	if n == 0 {
		return hackathon.ErrProgramNotFound
	}
	return nil
}

// Hub

func (r hackathonRepository) getRegistration(ctx context.Context, exe core.DBExecutor, userID, name string) (hackathon.Registration, error) {
	var row registrationRow
	q := "SELECT " + registrationColumns + " FROM hackathon_registrations WHERE user_id = ? AND hackathon_name = ?"
	if err := get(ctx, exe, &row, q, userID, name); err != nil {
		return hackathon.Registration{}, trapNoRowsErr(err, hackathon.ErrRegistrationNotFound, "finding registration")
	}
	return row.toRegistration(), nil
}

func (r hackathonRepository) Register(ctx context.Context, reg hackathon.Registration) (hackathon.Registration, error) {
	q := `INSERT INTO hackathon_registrations (user_id, hackathon_name, user_name, team_id, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id, hackathon_name) DO NOTHING`
	if _, err := execute(ctx, r.exec, q,
		reg.UserID, reg.HackathonName, reg.UserName, reg.TeamID, reg.CreatedAt.UTC(),
	); err != nil {
		return hackathon.Registration{}, errors.Wrap(err, "inserting registration")
	}
	return r.getRegistration(ctx, r.exec, reg.UserID, reg.HackathonName)
}

func (r hackathonRepository) QueryRegistrations(ctx context.Context, name string) ([]hackathon.Registration, error) {
	var rows []registrationRow
	q := "SELECT " + registrationColumns + " FROM hackathon_registrations WHERE hackathon_name = ? ORDER BY created_at, id"
	if err := sel(ctx, r.exec, &rows, q, name); err != nil {
		return nil, errors.Wrap(err, "querying registrations")
	}
	regs := make([]hackathon.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, row.toRegistration())
	}
	return regs, nil
}

func (r hackathonRepository) CreateTeam(ctx context.Context, t hackathon.Team) (hackathon.Team, error) {
	q := `INSERT INTO hackathon_teams (` + teamColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	t.CreatedAt = t.CreatedAt.UTC()
	if _, err := execute(ctx, r.exec, q,
		t.ID, t.HackathonName, t.Name, t.CreatedBy, t.MaxMembers, t.CreatedAt,
	); err != nil {
		return hackathon.Team{}, errors.Wrap(err, "inserting team")
	}
	return t, nil
}

func (r hackathonRepository) getTeam(ctx context.Context, exe core.DBExecutor, id string) (hackathon.Team, error) {
	var row teamRow
	q := "SELECT " + teamColumns + " FROM hackathon_teams WHERE id = ?"
	if err := get(ctx, exe, &row, q, id); err != nil {
		return hackathon.Team{}, trapNoRowsErr(err, hackathon.ErrTeamNotFound, "finding team")
	}
	return row.toTeam(), nil
}

func (r hackathonRepository) GetTeam(ctx context.Context, id string) (hackathon.Team, error) {
	return r.getTeam(ctx, r.exec, id)
}

func (r hackathonRepository) QueryTeams(ctx context.Context, name string) ([]hackathon.Team, error) {
	var rows []teamRow
	q := "SELECT " + teamColumns + " FROM hackathon_teams WHERE hackathon_name = ? ORDER BY created_at, id"
	if err := sel(ctx, r.exec, &rows, q, name); err != nil {
		return nil, errors.Wrap(err, "querying teams")
	}
	teams := make([]hackathon.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, row.toTeam())
	}
	return teams, nil
}

func (r hackathonRepository) JoinTeam(ctx context.Context, userID, teamID string) error {
	return withTx(ctx, r.exec, func(tx core.DBExecutor) error {
		team, err := r.getTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		reg, err := r.getRegistration(ctx, tx, userID, team.HackathonName)
		if err != nil {
			return err
		}
		if reg.TeamID.Valid && reg.TeamID.String == team.ID {
			return nil
		}

		// Lock the team row so concurrent joins count members one at a time. The no-op write
		// holds a row lock on postgres and the write lock on sqlite until commit.
		q := "UPDATE hackathon_teams SET max_members = max_members WHERE id = ?"
		if _, err := execute(ctx, tx, q, team.ID); err != nil {
			return errors.Wrap(err, "locking team")
		}

		var count int
		q = "SELECT COUNT(*) FROM hackathon_registrations WHERE team_id = ?"
		if err := get(ctx, tx, &count, q, team.ID); err != nil {
			return errors.Wrap(err, "counting team members")
		}
		if count >= team.MaxMembers {
			return hackathon.ErrTeamFull
		}

		q = "UPDATE hackathon_registrations SET team_id = ? WHERE id = ?"
		if _, err := execute(ctx, tx, q, team.ID, reg.ID); err != nil {
			return errors.Wrap(err, "joining team")
		}
		return nil
	})
}

func (r hackathonRepository) LeaveTeam(ctx context.Context, userID, name string) error {
	q := "UPDATE hackathon_registrations SET team_id = NULL WHERE user_id = ? AND hackathon_name = ?"
	n, err := execute(ctx, r.exec, q, userID, name)
	if err != nil {
		return errors.Wrap(err, "leaving team")
	}
	if n == 0 {
		return hackathon.ErrRegistrationNotFound
	}
	return nil
}
