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

func Test_challengeApi_today(t *testing.T) {
	app := setup(t)

	schoolTime(2025, time.August, 20)
	rec := do(app, http.MethodGet, "/v1/challenges/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap challenge.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, challenge.Snapshot{Date: "2025-08-20"}, snap)

	// first school day
	schoolTime(2025, time.September, 2)
	rec = do(app, http.MethodGet, "/v1/challenges/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &snap)
	assert.Equal(t, 1, snap.SchoolDay)
	assert.Equal(t, 1, snap.Week)
	if assert.NotNil(t, snap.Daily) {
		assert.Equal(t, "Two Sum", snap.Daily.Title)
	}
	if assert.NotNil(t, snap.Weekly) {
		assert.Equal(t, 0, snap.Weekly.ProblemIndex)
	}
}

func Test_challengeApi_batch(t *testing.T) {
	app := setup(t)

	runHTTPTests(t, app, []httpTest{
		{name: "week 0", path: "/v1/challenges/weeks/0", wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid argument"})},
		{name: "not a number", path: "/v1/challenges/weeks/one", wantCode: http.StatusBadRequest},
	})

	rec := do(app, http.MethodGet, "/v1/challenges/weeks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []challenge.Item
	decode(t, rec, &items)
	require.Len(t, items, 13)
	assert.Equal(t, challenge.LeetCode, items[0].Type)
	assert.Equal(t, "Two Sum", items[0].Title)
	assert.Equal(t, challenge.USACO, items[5].Type)
	assert.Equal(t, challenge.Codeforces, items[12].Type)
}

func Test_challengeApi_activities(t *testing.T) {
	app := setup(t)
	schoolTime(2025, time.September, 4)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada", "ada@test.com", "", []string{user.RoleStudent}, true)
	gone := testutil.CreateUser(t, usrRepo, "Gone", "gone", "gone@test.com", "", []string{user.RoleStudent}, false)
	token := getToken(t, ada)

	status := func(title, st string) []byte {
		return marchallObj(t, challenge.StatusUpdate{Week: 1, ProblemType: "LeetCode", ProblemTitle: title, Status: st})
	}

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodPut, path: "/v1/activities", body: status("Two Sum", "completed"), wantCode: http.StatusUnauthorized},
		{
			name: "deactivated", method: http.MethodPut, path: "/v1/activities", token: getToken(t, gone),
			body: status("Two Sum", "completed"), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "unknown status", method: http.MethodPut, path: "/v1/activities", token: token,
			body: status("Two Sum", "done"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "unknown status"}),
		},
		{
			name: "problem not assigned", method: http.MethodPut, path: "/v1/activities", token: token,
			body: status("Not A Problem", "viewed"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"problem_title": "problem is not assigned this week"}),
		},
		{
			name: "missing week", method: http.MethodPut, path: "/v1/activities", token: token,
			body: []byte(`{"problem_type":"leetcode","problem_title":"Two Sum","status":"viewed"}`), wantCode: http.StatusBadRequest,
		},
		{name: "completed", method: http.MethodPut, path: "/v1/activities", token: token, body: status("Two Sum", "completed"), wantCode: http.StatusOK},
		{name: "advance", method: http.MethodPost, path: "/v1/activities/advance", token: token, body: status("Valid Parentheses", ""), wantCode: http.StatusOK},
	})

	rec := do(app, http.MethodGet, "/v1/activities/weeks/1", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var view challenge.WeekView
	decode(t, rec, &view)
	assert.Equal(t, 2025, view.SchoolYear)
	require.Len(t, view.Items, 13)
	assert.Equal(t, progress.Completed, view.Items[0].Status)
	assert.Equal(t, progress.Viewed, view.Items[1].Status)
	assert.Equal(t, progress.NotAttempted, view.Items[2].Status)
	assert.Equal(t, progress.Summary{Completed: 1, Total: 13, Percentage: 8}, view.Progress)

	// completed wraps around to not attempted
	rec = do(app, http.MethodPost, "/v1/activities/advance", token, status("Two Sum", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var act challenge.Activity
	decode(t, rec, &act)
	assert.Equal(t, progress.NotAttempted, act.Status)

	schoolTime(2025, time.September, 10) // week 2
	rec = do(app, http.MethodGet, "/v1/activities/history", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist []challenge.WeekSummary
	decode(t, rec, &hist)
	require.Len(t, hist, 2)
	assert.Equal(t, 1, hist[0].Week)
	assert.Equal(t, 0, hist[0].Completed)
	assert.Equal(t, 13, hist[1].Total)

	rec = do(app, http.MethodGet, "/v1/activities/history?through=abc", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
