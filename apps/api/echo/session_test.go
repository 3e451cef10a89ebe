package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/eventhub/apps/api/echo"
	"github.com/trezcool/eventhub/core/user"
	"github.com/trezcool/eventhub/testutil"
)

func parseToken(t *testing.T, ta *testApp, body []byte) *echoapi.Claims {
	t.Helper()

	var resp echoapi.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(ta.conf.SecretKey), nil
	})
	require.NoError(t, err)
	return claims
}

func Test_authApi_login(t *testing.T) {
	ta := setup(t)

	configured := testutil.CreateUser(t, ta.usrRepo, "Principal", "admin@school.test", strongPassword, nil, true)
	staff := testutil.CreateUser(t, ta.usrRepo, "Staff", "staff@school.test", strongPassword, nil, true)
	testutil.CreateUser(t, ta.usrRepo, "Former", "former@school.test", strongPassword, []string{user.RoleAdmin}, false)

	login := func(email, pwd string) []byte {
		return marchallObj(t, echoapi.LoginRequest{Email: email, Password: pwd})
	}
	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	ta.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email is required", "password": "password is required"}),
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/v1/auth/login", body: login("office", strongPassword),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/auth/login", body: login("nobody@school.test", strongPassword),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login", body: login(ta.admin.Email, "wrong"),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/auth/login", body: login("former@school.test", strongPassword),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	})

	tests := []struct {
		name        string
		email       string
		wantSubject string
		wantAdmin   bool
	}{
		{name: "admin role", email: "  OFFICE@school.test ", wantSubject: ta.admin.ID, wantAdmin: true},
		{name: "configured admin email", email: configured.Email, wantSubject: configured.ID, wantAdmin: true},
		{name: "no admin rights", email: staff.Email, wantSubject: staff.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(http.MethodPost, "/v1/auth/login", "", login(tt.email, strongPassword))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			claims := parseToken(t, ta, rec.Body.Bytes())
			assert.Equal(t, tt.wantSubject, claims.Subject)
			assert.Equal(t, tt.wantAdmin, claims.IsAdmin)
			assert.Equal(t, claims.IssuedAt, claims.OrigIssuedAt)

			usr, err := ta.usrRepo.GetUser(context.Background(), user.GetFilter{ID: tt.wantSubject})
			require.NoError(t, err)
			assert.False(t, usr.LastLogin.IsZero(), "last login is set")
		})
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	ta := setup(t)

	former := testutil.CreateUser(t, ta.usrRepo, "Former", "former@school.test", strongPassword, []string{user.RoleAdmin}, false)
	expired := echoapi.GetUserClaims(ta.admin, true, ta.conf, time.Now().Add(-5*time.Hour).Unix())
	expiredToken, err := echoapi.GenerateToken(expired, ta.conf)
	require.NoError(t, err)

	ta.run(t, []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/v1/auth/token-refresh", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", method: http.MethodPost, path: "/v1/auth/token-refresh", token: "not.a.token",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/auth/token-refresh", token: getToken(t, ta.conf, former, true),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "refresh expired", method: http.MethodPost, path: "/v1/auth/token-refresh", token: expiredToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
	})

	t.Run("keeps the original issue time", func(t *testing.T) {
		oriat := time.Now().Add(-time.Hour).Unix()
		token, err := echoapi.GenerateToken(echoapi.GetUserClaims(ta.admin, true, ta.conf, oriat), ta.conf)
		require.NoError(t, err)

		rec := ta.do(http.MethodPost, "/v1/auth/token-refresh", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		claims := parseToken(t, ta, rec.Body.Bytes())
		assert.Equal(t, oriat, claims.OrigIssuedAt)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("admin flag is recomputed", func(t *testing.T) {
		staff := testutil.CreateUser(t, ta.usrRepo, "Staff", "staff@school.test", strongPassword, nil, true)

		rec := ta.do(http.MethodPost, "/v1/auth/token-refresh", getToken(t, ta.conf, staff, true))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.False(t, parseToken(t, ta, rec.Body.Bytes()).IsAdmin)
	})
}

func Test_authApi_session(t *testing.T) {
	ta := setup(t)

	staff := testutil.CreateUser(t, ta.usrRepo, "Staff", "staff@school.test", strongPassword, nil, true)

	ta.run(t, []httpTest{
		{name: "auth required", path: "/v1/auth/session", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
	})

	tests := []struct {
		name      string
		usr       user.User
		wantAdmin bool
	}{
		{name: "admin", usr: ta.admin, wantAdmin: true},
		{name: "not admin", usr: staff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(http.MethodGet, "/v1/auth/session", getToken(t, ta.conf, tt.usr, tt.wantAdmin))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp echoapi.SessionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.usr.ID, resp.User.ID)
			assert.Equal(t, tt.usr.Email, resp.User.Email)
			assert.Equal(t, tt.wantAdmin, resp.IsAdmin)
			assert.WithinDuration(t, time.Now().Add(ta.conf.Server.JWTExpirationDelta), resp.Expires, time.Minute)
			assert.NotContains(t, rec.Body.String(), "password", "hash is never serialized")
		})
	}
}

func Test_adminMiddleware(t *testing.T) {
	ta := setup(t)

	staff := testutil.CreateUser(t, ta.usrRepo, "Staff", "staff@school.test", strongPassword, nil, true)
	former := testutil.CreateUser(t, ta.usrRepo, "Former", "former@school.test", strongPassword, []string{user.RoleAdmin}, false)

	ta.run(t, []httpTest{
		{name: "auth required", path: "/v1/submissions", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "not admin", path: "/v1/submissions", token: getToken(t, ta.conf, staff, false), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "forged admin claim", path: "/v1/submissions", token: getToken(t, ta.conf, staff, true), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "deactivated admin", path: "/v1/submissions", token: getToken(t, ta.conf, former, true), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "admin", path: "/v1/submissions", token: ta.adminToken, wantData: marchallList(t)},
	})
}
