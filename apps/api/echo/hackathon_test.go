package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	testutil "github.com/dannygardner26/GVCS-Main-Page-sub000/tests"
)

func Test_hackathonApi_steps(t *testing.T) {
	app := setup(t)
	runHTTPTests(t, app, []httpTest{
		{name: "public", path: "/v1/hackathons/steps", wantCode: http.StatusOK, wantData: marchallObj(t, hackathon.Steps)},
	})
}

func Test_hackathonApi_programs(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "bob@test.com", "", []string{user.RoleStudent}, true)
	token := getToken(t, ada)

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", path: "/v1/hackathons/programs", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "empty", path: "/v1/hackathons/programs", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
		{
			name: "member without name", method: http.MethodPost, path: "/v1/hackathons/programs", token: token,
			body: []byte(`{"team_members":[{"name":" ","skills":"go"}]}`), wantCode: http.StatusBadRequest,
		},
	})

	rec := do(app, http.MethodPost, "/v1/hackathons/programs", token, []byte(`{"name":" HackGV ","tracks":["AI"]}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p hackathon.Program
	decode(t, rec, &p)
	assert.Equal(t, "HackGV", p.Name)
	assert.Equal(t, []string{"AI"}, p.Tracks)
	assert.Equal(t, hackathon.StepDownloadTools, p.CurrentStep)
	assert.Equal(t, ada.ID, p.UserID)

	path := "/v1/hackathons/programs/" + p.ID
	runHTTPTests(t, app, []httpTest{
		{name: "other student", path: path, token: getToken(t, bob), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "step missing", method: http.MethodPut, path: path + "/step", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest},
		{name: "step out of range", method: http.MethodPut, path: path + "/step", token: token, body: []byte(`{"step":6}`), wantCode: http.StatusBadRequest},
		{name: "step", method: http.MethodPut, path: path + "/step", token: token, body: []byte(`{"step":2}`), wantCode: http.StatusOK},
	})

	// fields left out are kept
	rec = do(app, http.MethodPut, path, token, []byte(`{"info":{"theme":"Climate"},"finalized_idea":"Solar map"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &p)
	assert.Equal(t, "HackGV", p.Name)
	assert.Equal(t, "Climate", p.Info.Theme)
	assert.Equal(t, "Solar map", p.FinalizedIdea)
	assert.Equal(t, hackathon.StepMasterDocument, p.CurrentStep)

	rec = do(app, http.MethodGet, path+"/prompts", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var prompts hackathon.Prompts
	decode(t, rec, &prompts)
	assert.Contains(t, prompts.Ideation, "Event name: HackGV")
	assert.Contains(t, prompts.Ideation, "Theme: Climate")
	assert.Contains(t, prompts.Ideation, "[INSERT SPONSORS]")
	assert.NotEmpty(t, prompts.MasterDocument)

	rec = do(app, http.MethodGet, "/v1/hackathons/programs", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var programs []hackathon.Program
	decode(t, rec, &programs)
	require.Len(t, programs, 1)

	rec = do(app, http.MethodDelete, path, getToken(t, bob))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(app, http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(app, http.MethodGet, path, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_hackathonApi_hub(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "bob@test.com", "", []string{user.RoleStudent}, true)
	cy := testutil.CreateUser(t, usrRepo, "Cy", "cy", "cy@test.com", "", []string{user.RoleStudent}, true)
	adaToken, bobToken, cyToken := getToken(t, ada), getToken(t, bob), getToken(t, cy)
	const event = "/v1/hackathons/events/hackgv-2025"

	// registering twice is a no-op
	var reg hackathon.Registration
	for i := 0; i < 2; i++ {
		rec := do(app, http.MethodPost, event+"/register", adaToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &reg)
	}
	assert.Equal(t, "Ada", reg.UserName)
	assert.False(t, reg.TeamID.Valid)

	runHTTPTests(t, app, []httpTest{
		{name: "team too big", method: http.MethodPost, path: event + "/teams", token: adaToken, body: []byte(`{"max_members":11}`), wantCode: http.StatusBadRequest},
		{name: "unknown team", method: http.MethodPost, path: "/v1/hackathons/teams/nope/join", token: bobToken, wantCode: http.StatusNotFound},
	})

	rec := do(app, http.MethodPost, event+"/teams", adaToken, []byte(`{"max_members":2}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var team hackathon.TeamView
	decode(t, rec, &team)
	assert.Equal(t, "Ada's Team", team.Name)
	assert.Equal(t, "hackgv-2025", team.HackathonName)
	require.Len(t, team.Members, 1)
	assert.Equal(t, 1, team.EmptySpots)

	// joining registers the student
	join := "/v1/hackathons/teams/" + team.ID + "/join"
	rec = do(app, http.MethodPost, join, bobToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &team)
	assert.Len(t, team.Members, 2)
	assert.Equal(t, 0, team.EmptySpots)

	runHTTPTests(t, app, []httpTest{
		{name: "team full", method: http.MethodPost, path: join, token: cyToken, wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "this team is full"})},
		{name: "join again", method: http.MethodPost, path: join, token: bobToken, wantCode: http.StatusOK},
		{name: "leave unregistered", method: http.MethodDelete, path: "/v1/hackathons/events/other/team", token: bobToken, wantCode: http.StatusNotFound},
		{name: "leave", method: http.MethodDelete, path: event + "/team", token: bobToken, wantCode: http.StatusNoContent},
		{name: "join after leave", method: http.MethodPost, path: join, token: cyToken, wantCode: http.StatusOK},
	})

	rec = do(app, http.MethodGet, event, adaToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ev hackathon.Event
	decode(t, rec, &ev)
	assert.Equal(t, "hackgv-2025", ev.Name)
	assert.Len(t, ev.Registrations, 3)
	require.Len(t, ev.Teams, 1)
	names := make([]string, 0, 2)
	for _, m := range ev.Teams[0].Members {
		names = append(names, m.UserName)
	}
	assert.ElementsMatch(t, []string{"Ada", "Cy"}, names)
}
