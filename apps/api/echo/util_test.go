package echoapi

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/schoolday"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	emailsvc "github.com/dannygardner26/GVCS-Main-Page-sub000/services/email"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/services/genai"
	inmemdb "github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database/inmem"
	testutil "github.com/dannygardner26/GVCS-Main-Page-sub000/tests"
)

var (
	conf    *core.Config
	usrRepo user.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNotFound     = httpErr{Error: "not found"}
)

func setup(t *testing.T) Server {
	t.Helper()
	conf = core.NewTestConfig()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewTranslatedValidator()
	db := inmemdb.Open()

	cal, err := schoolday.NewCalendar(conf.Schedule.Epoch, conf.Schedule.Location)
	require.NoError(t, err)
	pools, err := challenge.LoadPoolsFile("")
	require.NoError(t, err)
	catalog, err := curriculum.LoadCatalogFile("")
	require.NoError(t, err)
	completer, err := genai.NewCannedCompleter(catalog)
	require.NoError(t, err)

	// set up repos & services
	usrRepo = inmemdb.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	grader := curriculum.NewPlaceholderGrader(rand.New(rand.NewSource(1)))

	core.ParseEmailTemplates(logger, true)
	emailsvc.ResetSentMessages()
	t.Cleanup(func() { challenge.NowFunc = time.Now })

	return NewServer(&Options{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		UserSvc:       user.NewServiceMock(usrRepo, mailSvc, conf, logger),
		ChallengeSvc:  challenge.NewService(inmemdb.NewActivityRepository(db), cal, pools),
		CurriculumSvc: curriculum.NewService(inmemdb.NewEnrollmentRepository(db), catalog, grader, validate),
		PlannerSvc:    planner.NewService(completer, catalog, inmemdb.NewPlannerStore(db), validate),
		HackathonSvc:  hackathon.NewService(inmemdb.NewHackathonRepository(db), validate),
	})
}

// schoolTime freezes the challenge clock on the given date (noon, school timezone).
func schoolTime(year int, month time.Month, day int) {
	challenge.NowFunc = func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, conf.Schedule.Location)
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do runs one request against the app.
func do(app Server, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

// decode unmarshals the response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := do(app, method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
