package feedback_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/storage/database/inmem"
)

func TestService(t *testing.T) {
	svc := feedback.NewService(inmemdb.NewFeedbackRepository(inmemdb.NewDB()))
	ctx := context.Background()

	start := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	feedback.NowFunc = func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Minute)
	}
	defer func() { feedback.NowFunc = time.Now }()

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			nf      feedback.NewFeedback
			wantErr map[string]string
		}{
			{name: "blank", nf: feedback.NewFeedback{Feedback: "  "}, wantErr: map[string]string{"feedback": "feedback is required"}},
			{name: "bad email", nf: feedback.NewFeedback{Feedback: "Nice", Email: "nope"}, wantErr: map[string]string{"email": "email must be a valid email address"}},
			{name: "too long", nf: feedback.NewFeedback{Feedback: strings.Repeat("a", 5001)}, wantErr: map[string]string{"feedback": "feedback must be a maximum of 5,000 characters in length"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.nf)
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, core.FieldErrors(err))
			})
		}
	})

	first, err := svc.Create(ctx, feedback.NewFeedback{Feedback: " Love the calendar! "})
	require.NoError(t, err)
	assert.Equal(t, "Love the calendar!", first.Feedback)
	assert.Empty(t, first.Email)

	second, err := svc.Create(ctx, feedback.NewFeedback{Feedback: "Add a dark mode", Email: "Kid@School.test"})
	require.NoError(t, err)
	assert.Equal(t, "kid@school.test", second.Email)

	all, err := svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	require.NoError(t, svc.MarkRead(ctx, first.ID))
	all, err = svc.Query(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.True(t, errors.Is(svc.MarkRead(ctx, first.ID), feedback.ErrNotFound))
}
