package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/eventhub/apps/api/echo"
	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/calendar"
	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/core/user"
	emailsvc "github.com/trezcool/eventhub/services/email"
	i18nsvc "github.com/trezcool/eventhub/services/i18n"
	mediasvc "github.com/trezcool/eventhub/services/media"
	inmemdb "github.com/trezcool/eventhub/storage/database/inmem"
	"github.com/trezcool/eventhub/testutil"
)

var (
	// 2025-12-10 18:00 in Vancouver
	now = time.Date(2025, time.December, 11, 2, 0, 0, 0, time.UTC)

	strongPassword = "Sup3r$ecret!"

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type loggerMock struct {
	mu     sync.Mutex
	errors []string
}

func (l *loggerMock) Debug(string, ...interface{}) {}
func (l *loggerMock) Info(string, ...interface{})  {}
func (l *loggerMock) Warn(string, ...interface{})  {}
func (l *loggerMock) Fatal(string, ...interface{}) {}
func (l *loggerMock) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *loggerMock) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

type testApp struct {
	conf     *core.Config
	app      *echoapi.Server
	logger   *loggerMock
	mailSvc  *emailsvc.ConsoleServiceMock
	uploader *mediasvc.UploaderMock

	usrRepo  user.Repository
	evtRepo  event.Repository
	clubRepo club.Repository
	fbRepo   feedback.Repository

	admin      user.User
	adminToken string
}

type appOption func(opts *echoapi.Options, ta *testApp)

// withEventRepository swaps the event store, e.g. for one that fails on purpose.
func withEventRepository(wrap func(event.Repository) event.Repository) appOption {
	return func(opts *echoapi.Options, ta *testApp) {
		ta.evtRepo = wrap(ta.evtRepo)
		opts.EventSvc = event.NewService(ta.evtRepo, ta.mailSvc, ta.conf)
		opts.CalendarSvc = calendar.NewService(opts.EventSvc, nil, ta.logger, ta.conf)
	}
}

func withoutUploader() appOption {
	return func(opts *echoapi.Options, _ *testApp) { opts.Uploader = nil }
}

func setup(t *testing.T, options ...appOption) *testApp {
	t.Helper()

	event.NowFunc = func() time.Time { return now }
	calendar.NowFunc = func() time.Time { return now }
	feedback.NowFunc = func() time.Time { return now }
	t.Cleanup(func() {
		event.NowFunc = time.Now
		calendar.NowFunc = time.Now
		feedback.NowFunc = time.Now
	})

	db := inmemdb.NewDB()
	ta := &testApp{
		conf:     core.NewTestConfig(),
		logger:   new(loggerMock),
		uploader: mediasvc.NewUploaderMock(),
		usrRepo:  inmemdb.NewUserRepository(db),
		evtRepo:  inmemdb.NewEventRepository(db),
		clubRepo: inmemdb.NewClubRepository(db),
		fbRepo:   inmemdb.NewFeedbackRepository(db),
	}
	ta.mailSvc = emailsvc.NewConsoleServiceMock(ta.conf)

	translator, err := i18nsvc.NewTranslator("en", ta.logger)
	require.NoError(t, err)

	usrSvc := user.NewService(ta.usrRepo, ta.conf)
	evtSvc := event.NewService(ta.evtRepo, ta.mailSvc, ta.conf)
	opts := echoapi.Options{
		Conf:           ta.conf,
		Logger:         ta.logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		EventSvc:       evtSvc,
		ClubSvc:        club.NewService(ta.clubRepo),
		FeedbackSvc:    feedback.NewService(ta.fbRepo),
		CalendarSvc:    calendar.NewService(evtSvc, translator, ta.logger, ta.conf),
		Uploader:       ta.uploader,
	}
	for _, opt := range options {
		opt(&opts, ta)
	}
	ta.app = echoapi.NewServer(opts)

	ta.admin = testutil.CreateUser(t, ta.usrRepo, "Admin", "office@school.test", strongPassword, []string{user.RoleAdmin}, true)
	ta.adminToken = getToken(t, ta.conf, ta.admin, true)
	return ta
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

func (ta *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	ta.app.ServeHTTP(rec, req)
	return rec
}

func (ta *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, ta.do(method, tt.path, tt.token, tt.body))
		})
	}
}

func getToken(t *testing.T, conf *core.Config, usr user.User, isAdmin bool) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, isAdmin, conf), conf)
	require.NoError(t, err)
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	if objs == nil {
		objs = []interface{}{}
	}
	return marchallObj(t, objs)
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func TestServer_home(t *testing.T) {
	ta := setup(t)

	rec := ta.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to EventHub API!", rec.Body.String())

	rec = ta.do(http.MethodGet, "/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
