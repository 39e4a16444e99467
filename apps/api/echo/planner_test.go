package echoapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	testutil "github.com/dannygardner26/GVCS-Main-Page-sub000/tests"
)

func Test_plannerApi_generate(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	token := getToken(t, ada)

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/v1/planner/generate", body: []byte(`{"topic":"Graphs"}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "topic required", method: http.MethodPost, path: "/v1/planner/generate", token: token, body: []byte(`{"topic":"   "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"topic": "this field is required"}),
		},
		{
			name: "topic too long", method: http.MethodPost, path: "/v1/planner/generate", token: token,
			body: marchallObj(t, planner.PlanRequest{Topic: strings.Repeat("a", 201)}), wantCode: http.StatusBadRequest,
		},
		{
			name: "bad score", method: http.MethodPost, path: "/v1/planner/ideas", token: token,
			body: []byte(`{"apcsa_score":"7"}`), wantCode: http.StatusBadRequest,
		},
	})

	rec := do(app, http.MethodPost, "/v1/planner/generate", token, []byte(`{"topic":"  Graph Algorithms "}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p planner.Plan
	decode(t, rec, &p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Graph Algorithms", p.Topic)
	require.Len(t, p.Weeks, planner.MaxPlanWeeks)
	for i, w := range p.Weeks {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, curriculum.Generated, w.Kind)
	}

	// generated plans are not saved
	rec = do(app, http.MethodGet, "/v1/planner/plans", token)
	require.Equal(t, http.StatusOK, rec.Code)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

	body := marchallObj(t, planner.StudentProfile{
		MathCourses: "AP Calculus BC",
		APCSAScore:  "5",
		Interests:   []planner.Interest{{Name: "Machine Learning", Score: 9}},
	})
	rec = do(app, http.MethodPost, "/v1/planner/ideas", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ideas []planner.Idea
	decode(t, rec, &ideas)
	require.NotEmpty(t, ideas)
	assert.LessOrEqual(t, len(ideas), 4)
	catalog, err := curriculum.LoadCatalogFile("")
	require.NoError(t, err)
	for _, idea := range ideas {
		_, ok := catalog.FindByTitle(idea.Title)
		assert.True(t, ok, idea.Title)
	}
}

func Test_plannerApi_plans(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "bob@test.com", "", []string{user.RoleStudent}, true)
	token := getToken(t, ada)

	rec := do(app, http.MethodPost, "/v1/planner/generate", token, []byte(`{"topic":"Compilers"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var generated planner.Plan
	decode(t, rec, &generated)

	rec = do(app, http.MethodPost, "/v1/planner/plans", token, marchallObj(t, generated))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p planner.Plan
	decode(t, rec, &p)
	assert.Equal(t, generated.ID, p.ID)

	noWeeks := generated
	noWeeks.Weeks = nil
	path := "/v1/planner/plans/" + p.ID
	runHTTPTests(t, app, []httpTest{
		{name: "no weeks", method: http.MethodPost, path: "/v1/planner/plans", token: token, body: marchallObj(t, noWeeks), wantCode: http.StatusBadRequest},
		{name: "list", path: "/v1/planner/plans", token: token, wantCode: http.StatusOK, wantData: marchallList(t, p)},
		{name: "detail", path: path, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, p)},
		{name: "other student", path: path, token: getToken(t, bob), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "unknown plan", path: "/v1/planner/plans/nope", token: token, wantCode: http.StatusNotFound},
	})

	// the saved plan can be taken as a course
	runHTTPTests(t, app, []httpTest{
		{
			name: "plan required", method: http.MethodPost, path: "/v1/courses/plan", token: token, body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"plan_id": "this field is required"}),
		},
		{name: "other student's plan", method: http.MethodPost, path: "/v1/courses/plan", token: getToken(t, bob), body: []byte(`{"plan_id":"` + p.ID + `"}`), wantCode: http.StatusNotFound},
	})
	rec = do(app, http.MethodPost, "/v1/courses/plan", token, []byte(`{"plan_id":"`+p.ID+`"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var e curriculum.Enrollment
	decode(t, rec, &e)
	assert.Equal(t, curriculum.SourceGenerated, e.Source)
	assert.Equal(t, "Compilers", e.Title)
	assert.Len(t, e.Content, planner.MaxPlanWeeks)

	rec = do(app, http.MethodDelete, path, getToken(t, bob))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(app, http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(app, http.MethodGet, path, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_plannerApi_record(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	token := getToken(t, ada)

	rec := do(app, http.MethodPost, "/v1/planner/generate", token, []byte(`{"topic":"Databases"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p planner.Plan
	decode(t, rec, &p)
	rec = do(app, http.MethodPost, "/v1/planner/plans", token, marchallObj(t, p))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entry := func(year, period int, planID string) []byte {
		return marchallObj(t, planner.RecordEntry{SchoolYear: year, MarkingPeriod: period, PlanID: planID})
	}
	runHTTPTests(t, app, []httpTest{
		{name: "bad period", method: http.MethodPut, path: "/v1/planner/record", token: token, body: entry(2025, 5, p.ID), wantCode: http.StatusBadRequest},
		{
			name: "unknown plan", method: http.MethodPut, path: "/v1/planner/record", token: token, body: entry(2025, 1, "nope"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"plan_id": "unknown plan"}),
		},
		{name: "set", method: http.MethodPut, path: "/v1/planner/record", token: token, body: entry(2025, 1, p.ID), wantCode: http.StatusOK},
		{name: "set next year", method: http.MethodPut, path: "/v1/planner/record", token: token, body: entry(2026, 2, p.ID), wantCode: http.StatusOK},
		{name: "bad year", path: "/v1/planner/record?year=abc", token: token, wantCode: http.StatusBadRequest},
		{name: "clear bad period", method: http.MethodDelete, path: "/v1/planner/record/2025/5", token: token, wantCode: http.StatusBadRequest},
	})

	var entries []planner.RecordEntry
	rec = do(app, http.MethodGet, "/v1/planner/record?year=2025", token)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Databases", entries[0].Title)
	assert.Equal(t, 1, entries[0].MarkingPeriod)

	rec = do(app, http.MethodGet, "/v1/planner/record", token)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &entries)
	require.Len(t, entries, 2)

	rec = do(app, http.MethodDelete, "/v1/planner/record/2026/2", token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(app, http.MethodGet, "/v1/planner/record", token)
	decode(t, rec, &entries)
	require.Len(t, entries, 1)

	// deleting the plan clears its record entries
	rec = do(app, http.MethodDelete, "/v1/planner/plans/"+p.ID, token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(app, http.MethodGet, "/v1/planner/record", token)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
}
