package sqlxrepos_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	sqlxrepos "github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database/sqlx"
	testutil "github.com/dannygardner26/GVCS-Main-Page-sub000/tests"
)

func Test_userRepository(t *testing.T) {
	ctx := context.Background()
	repo := sqlxrepos.NewUserRepository(testutil.PrepareDB(t))
	now := time.Now()

	ada := testutil.CreateUser(t, repo, "Ada Lovelace", "ada", "ada@test.com", "pwd", []string{user.RoleStudent}, true, now)
	bob := testutil.CreateUser(t, repo, "Bob", "bob", "", "", []string{user.RoleTeacher}, false, now.Add(time.Minute))

	t.Run("uniqueness", func(t *testing.T) {
		assert.ErrorIs(t, repo.CheckUsernameUniqueness(ctx, "ada", "", nil), user.ErrUserExists)
		assert.ErrorIs(t, repo.CheckUsernameUniqueness(ctx, "", "ada@test.com", nil), user.ErrUserExists)
		assert.NoError(t, repo.CheckUsernameUniqueness(ctx, "ada", "ada@test.com", []user.User{ada}))
		assert.NoError(t, repo.CheckUsernameUniqueness(ctx, "cy", "cy@test.com", nil))
	})

	t.Run("get", func(t *testing.T) {
		for _, f := range []user.GetFilter{
			{ID: ada.ID},
			{Username: "ada"},
			{Email: "ada@test.com"},
			{UsernameOrEmail: []string{"ada@test.com"}},
			{UsernameOrEmail: []string{"", "ada@test.com"}},
		} {
			got, err := repo.GetUser(ctx, f)
			if assert.NoError(t, err, "%+v", f) {
				assert.Equal(t, ada.ID, got.ID)
				assert.NoError(t, got.CheckPassword("pwd"))
			}
		}

		got, err := repo.GetUser(ctx, user.GetFilter{ID: bob.ID})
		require.NoError(t, err)
		assert.Empty(t, got.Email)
		assert.False(t, got.Active())
		assert.Equal(t, []string{user.RoleTeacher}, got.Roles)

		for _, f := range []user.GetFilter{{}, {ID: "not-a-uuid"}, {ID: uuid.NewString()}, {Username: "cy"}} {
			_, err := repo.GetUser(ctx, f)
			assert.ErrorIs(t, err, core.ErrNotFound, "%+v", f)
		}
	})

	t.Run("query", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, bob.ID, users[0].ID) // newest first

		users, err = repo.QueryUsers(ctx, &user.QueryFilter{Search: "LOVE"}, nil)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, ada.ID, users[0].ID)

		users, err = repo.QueryUsers(ctx, &user.QueryFilter{Roles: []string{user.RoleTeacher}}, nil)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, bob.ID, users[0].ID)

		active := true
		users, err = repo.QueryUsers(ctx, &user.QueryFilter{IsActive: &active}, []core.DBOrdering{{Field: "name", Ascending: true}})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, ada.ID, users[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		ada.Name = "Countess"
		ada.LastLogin = time.Now().UTC()
		_, err := repo.UpdateOrCreateUser(ctx, ada)
		require.NoError(t, err)
		got, err := repo.GetUser(ctx, user.GetFilter{ID: ada.ID})
		require.NoError(t, err)
		assert.Equal(t, "Countess", got.Name)
		assert.False(t, got.LastLogin.IsZero())

		_, err = repo.UpdateUser(ctx, user.User{ID: uuid.NewString()})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("profile", func(t *testing.T) {
		_, err := repo.GetProfile(ctx, ada.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)

		_, err = repo.UpsertProfile(ctx, user.Profile{UserID: ada.ID, DisplayName: "Ada", GradeLevel: null.IntFrom(11), UpdatedAt: time.Now()})
		require.NoError(t, err)
		_, err = repo.UpsertProfile(ctx, user.Profile{UserID: ada.ID, DisplayName: "A. L.", UpdatedAt: time.Now()})
		require.NoError(t, err)

		p, err := repo.GetProfile(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "A. L.", p.DisplayName)
		assert.False(t, p.GradeLevel.Valid)
	})

	t.Run("delete", func(t *testing.T) {
		n, err := repo.DeleteUsersByID(ctx, []string{bob.ID, uuid.NewString()})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = repo.GetUser(ctx, user.GetFilter{ID: bob.ID})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func Test_activityRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	repo := sqlxrepos.NewActivityRepository(db)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "", "", nil, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "", "", nil, true)

	act := challenge.Activity{
		UserID:       ada.ID,
		WeekNumber:   1,
		SchoolYear:   2025,
		ProblemType:  challenge.LeetCode,
		ProblemTitle: "Two Sum",
		ProblemURL:   "https://leetcode.com/problems/two-sum/",
		Status:       progress.Viewed,
		UpdatedAt:    time.Now(),
	}
	first, err := repo.UpsertActivity(ctx, act)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	act.Status = progress.Completed
	second, err := repo.UpsertActivity(ctx, act)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, progress.Completed, second.Status)

	for _, a := range []challenge.Activity{
		{UserID: ada.ID, WeekNumber: 3, SchoolYear: 2025, ProblemType: challenge.USACO, ProblemTitle: "Milk", Status: progress.Viewed},
		{UserID: bob.ID, WeekNumber: 1, SchoolYear: 2025, ProblemType: challenge.LeetCode, ProblemTitle: "Two Sum", Status: progress.Completed},
		{UserID: ada.ID, WeekNumber: 1, SchoolYear: 2026, ProblemType: challenge.LeetCode, ProblemTitle: "Two Sum", Status: progress.Completed},
	} {
		a.UpdatedAt = time.Now()
		_, err := repo.UpsertActivity(ctx, a)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter challenge.ActivityFilter
		want   int
	}{
		{"everything", challenge.ActivityFilter{}, 4},
		{"one user", challenge.ActivityFilter{UserIDs: []string{ada.ID}}, 3},
		{"both users", challenge.ActivityFilter{UserIDs: []string{ada.ID, bob.ID}, SchoolYear: 2025}, 3},
		{"one week", challenge.ActivityFilter{SchoolYear: 2025, WeekNumber: 1}, 2},
		{"week range", challenge.ActivityFilter{UserIDs: []string{ada.ID}, SchoolYear: 2025, FromWeek: 2, ToWeek: 5}, 1},
		{"no match", challenge.ActivityFilter{SchoolYear: 2030}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts, err := repo.QueryActivities(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, acts, tt.want)
		})
	}
}

func Test_enrollmentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewEnrollmentRepository(db)
	ada := testutil.CreateUser(t, sqlxrepos.NewUserRepository(db), "Ada", "ada", "", "", nil, true)

	catalog, err := curriculum.LoadCatalogFile("")
	require.NoError(t, err)
	course, err := catalog.Get("cs-102")
	require.NoError(t, err)

	now := time.Now()
	e, err := repo.CreateEnrollment(ctx, curriculum.Enrollment{
		ID:         uuid.NewString(),
		UserID:     ada.ID,
		Source:     curriculum.SourceCurated,
		CourseSlug: course.Slug,
		Title:      course.Title,
		Content:    course.Weeks,
		Weeks:      []curriculum.WeekProgress{},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	got, err := repo.GetEnrollment(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Slug, got.CourseSlug)
	assert.Len(t, got.Content, len(course.Weeks))
	assert.Empty(t, got.Weeks)

	got.Weeks = append(got.Weeks, curriculum.WeekProgress{Week: 1, Submissions: map[curriculum.Activity]*curriculum.Submission{}})
	got.UpdatedAt = time.Now()
	_, err = repo.UpdateEnrollment(ctx, got)
	require.NoError(t, err)

	es, err := repo.QueryEnrollments(ctx, curriculum.EnrollmentFilter{UserIDs: []string{ada.ID}, Source: curriculum.SourceCurated})
	require.NoError(t, err)
	require.Len(t, es, 1)
	require.Len(t, es[0].Weeks, 1)
	assert.Equal(t, 1, es[0].Weeks[0].Week)

	es, err = repo.QueryEnrollments(ctx, curriculum.EnrollmentFilter{CourseSlug: "cs-999"})
	require.NoError(t, err)
	assert.Empty(t, es)

	require.NoError(t, repo.DeleteEnrollment(ctx, e.ID))
	assert.ErrorIs(t, repo.DeleteEnrollment(ctx, e.ID), core.ErrNotFound)
	_, err = repo.GetEnrollment(ctx, e.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.UpdateEnrollment(ctx, got)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_hackathonRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	repo := sqlxrepos.NewHackathonRepository(db)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "", "", nil, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "", "", nil, true)
	cy := testutil.CreateUser(t, usrRepo, "Cy", "cy", "", "", nil, true)
	now := time.Now()

	t.Run("programs", func(t *testing.T) {
		p, err := repo.CreateProgram(ctx, hackathon.Program{
			ID:          uuid.NewString(),
			UserID:      ada.ID,
			Name:        "HackGV",
			Tracks:      []string{"AI"},
			CurrentStep: hackathon.StepDownloadTools,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		require.NoError(t, err)
		assert.Empty(t, p.TeamMembers)

		p.Info.Theme = "Climate"
		p.TeamMembers = []hackathon.TeamMember{{Name: "Bob"}}
		_, err = repo.UpdateProgram(ctx, p)
		require.NoError(t, err)

		got, err := repo.GetProgram(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Climate", got.Info.Theme)
		assert.Equal(t, []string{"AI"}, got.Tracks)
		require.Len(t, got.TeamMembers, 1)

		ps, err := repo.QueryPrograms(ctx, ada.ID)
		require.NoError(t, err)
		assert.Len(t, ps, 1)
		ps, err = repo.QueryPrograms(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, ps)

		require.NoError(t, repo.DeleteProgram(ctx, p.ID))
		assert.ErrorIs(t, repo.DeleteProgram(ctx, p.ID), core.ErrNotFound)
		_, err = repo.GetProgram(ctx, p.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("hub", func(t *testing.T) {
		const event = "hackgv-2025"
		for _, u := range []user.User{ada, bob, cy} {
			reg, err := repo.Register(ctx, hackathon.Registration{UserID: u.ID, UserName: u.Name, HackathonName: event, CreatedAt: now})
			require.NoError(t, err)
			assert.False(t, reg.TeamID.Valid)
		}
		again, err := repo.Register(ctx, hackathon.Registration{UserID: ada.ID, UserName: "Other", HackathonName: event, CreatedAt: now})
		require.NoError(t, err)
		assert.Equal(t, "Ada", again.UserName)

		team, err := repo.CreateTeam(ctx, hackathon.Team{
			ID: uuid.NewString(), HackathonName: event, Name: "Ada's Team", CreatedBy: ada.ID, MaxMembers: 2, CreatedAt: now,
		})
		require.NoError(t, err)

		require.NoError(t, repo.JoinTeam(ctx, ada.ID, team.ID))
		require.NoError(t, repo.JoinTeam(ctx, ada.ID, team.ID)) // already a member
		require.NoError(t, repo.JoinTeam(ctx, bob.ID, team.ID))
		assert.ErrorIs(t, repo.JoinTeam(ctx, cy.ID, team.ID), hackathon.ErrTeamFull)
		assert.ErrorIs(t, repo.JoinTeam(ctx, cy.ID, uuid.NewString()), core.ErrNotFound)

		require.NoError(t, repo.LeaveTeam(ctx, bob.ID, event))
		assert.ErrorIs(t, repo.LeaveTeam(ctx, bob.ID, "other-event"), core.ErrNotFound)
		require.NoError(t, repo.JoinTeam(ctx, cy.ID, team.ID))

		regs, err := repo.QueryRegistrations(ctx, event)
		require.NoError(t, err)
		require.Len(t, regs, 3)
		members := map[string]bool{}
		for _, r := range regs {
			if r.TeamID.Valid && r.TeamID.String == team.ID {
				members[r.UserName] = true
			}
		}
		assert.Equal(t, map[string]bool{"Ada": true, "Cy": true}, members)

		teams, err := repo.QueryTeams(ctx, event)
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "Ada's Team", teams[0].Name)

		got, err := repo.GetTeam(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.MaxMembers)
	})

	t.Run("concurrent joins respect capacity", func(t *testing.T) {
		const event = "hackgv-rush"
		team, err := repo.CreateTeam(ctx, hackathon.Team{
			ID: uuid.NewString(), HackathonName: event, Name: "Rush", CreatedBy: ada.ID, MaxMembers: 2, CreatedAt: now,
		})
		require.NoError(t, err)

		var ids []string
		for _, name := range []string{"dee", "eve", "fay", "gus", "hal", "ivy"} {
			u := testutil.CreateUser(t, usrRepo, name, name, "", "", nil, true)
			_, err := repo.Register(ctx, hackathon.Registration{UserID: u.ID, UserName: u.Name, HackathonName: event, CreatedAt: now})
			require.NoError(t, err)
			ids = append(ids, u.ID)
		}

		errs := make([]error, len(ids))
		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				errs[i] = repo.JoinTeam(ctx, id, team.ID)
			}(i, id)
		}
		wg.Wait()

		joined := 0
		for _, err := range errs {
			if err == nil {
				joined++
				continue
			}
			assert.ErrorIs(t, err, hackathon.ErrTeamFull)
		}
		assert.Equal(t, 2, joined)

		regs, err := repo.QueryRegistrations(ctx, event)
		require.NoError(t, err)
		members := 0
		for _, r := range regs {
			if r.TeamID.Valid && r.TeamID.String == team.ID {
				members++
			}
		}
		assert.Equal(t, 2, members)
	})
}
