package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/progress"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	testutil "github.com/dannygardner26/GVCS-Main-Page-sub000/tests"
)

func Test_adminApi_overview(t *testing.T) {
	app := setup(t)
	schoolTime(2025, time.September, 4)
	now := time.Now()
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true, now)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "bob@test.com", "", []string{user.RoleStudent}, true, now.Add(time.Hour))
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.com", "", []string{user.RoleTeacher}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.com", "", []string{user.RoleAdmin}, true)
	adaToken, adminToken := getToken(t, ada), getToken(t, admin)

	rec := do(app, http.MethodPost, "/v1/courses", adaToken, []byte(`{"slug":"cs-102"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(app, http.MethodPut, "/v1/activities", adaToken, marchallObj(t, challenge.StatusUpdate{
		Week: 1, ProblemType: "leetcode", ProblemTitle: "Two Sum", Status: "completed",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", path: "/v1/admin/overview", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "student", path: "/v1/admin/overview", token: adaToken, wantCode: http.StatusForbidden},
		{name: "teacher", path: "/v1/admin/overview", token: getToken(t, teacher), wantCode: http.StatusForbidden},
		{name: "bad week", path: "/v1/admin/overview?through=-1", token: adminToken, wantCode: http.StatusBadRequest},
	})

	rec = do(app, http.MethodGet, "/v1/admin/overview?ordering=-created_at", adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []StudentOverview
	decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, bob.ID, rows[0].User.ID)
	assert.Empty(t, rows[0].Courses)
	require.Len(t, rows[0].Weekly, 1)
	assert.Equal(t, 0, rows[0].Weekly[0].Completed)

	assert.Equal(t, ada.ID, rows[1].User.ID)
	require.Len(t, rows[1].Courses, 1)
	assert.Equal(t, "cs-102", rows[1].Courses[0].CourseSlug)
	require.Len(t, rows[1].Weekly, 1)
	assert.Equal(t, 1, rows[1].Weekly[0].Completed)
	assert.Equal(t, 13, rows[1].Weekly[0].Total)
	assert.Equal(t, map[progress.Status]int{progress.NotAttempted: 12, progress.Viewed: 0, progress.Completed: 1}, rows[1].Weekly[0].Statuses)

	rec = do(app, http.MethodGet, "/v1/admin/overview?search=bob", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, bob.ID, rows[0].User.ID)

	// nothing to report before the first week
	rec = do(app, http.MethodGet, "/v1/admin/overview?through=0", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].Weekly)
}
