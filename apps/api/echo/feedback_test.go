package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/testutil"
)

func Test_feedbackApi(t *testing.T) {
	ta := setup(t)

	older := testutil.CreateFeedback(t, ta.fbRepo, "Please add a chess tournament.", "", now.Add(-48*time.Hour))

	t.Run("create", func(t *testing.T) {
		rec := ta.do(http.MethodPost, "/v1/feedback", "", []byte(`{"feedback": " Love the new calendar! ", "email": "Parent@Home.test"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var fb feedback.Feedback
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fb))
		assert.NotEmpty(t, fb.ID)
		assert.Equal(t, "Love the new calendar!", fb.Feedback)
		assert.Equal(t, "parent@home.test", fb.Email)
		assert.True(t, fb.SubmittedAt.Equal(now))
	})

	fbs, err := ta.fbRepo.QueryFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, fbs, 2)
	newest := fbs[0]

	ta.run(t, []httpTest{
		{
			name: "feedback required", method: http.MethodPost, path: "/v1/feedback", body: []byte(`{"feedback": "   "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"feedback": "feedback is required"}),
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/v1/feedback", body: []byte(`{"feedback": "Hi", "email": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		// admin
		{name: "list requires auth", path: "/v1/feedback", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "list, newest first", path: "/v1/feedback", token: ta.adminToken, wantData: marchallList(t, newest, older)},
		{name: "mark read", method: http.MethodDelete, path: "/v1/feedback/" + older.ID, token: ta.adminToken, wantCode: http.StatusNoContent},
		{
			name: "mark read (unknown)", method: http.MethodDelete, path: "/v1/feedback/" + older.ID, token: ta.adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "feedback not found"}),
		},
		{name: "after mark read", path: "/v1/feedback", token: ta.adminToken, wantData: marchallList(t, newest)},
	})
}
