// Package testutil creates fixtures directly through the repositories, skipping service validation.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateSubmission stores sub as a pending submission; a zero SubmittedAt is set to now.
func CreateSubmission(t *testing.T, repo event.Repository, sub event.Submission) event.Submission {
	t.Helper()

	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}

// CreateEvent stores evt as an approved event; a zero ApprovedAt is set to now.
func CreateEvent(t *testing.T, repo event.Repository, evt event.Event) event.Event {
	t.Helper()

	if evt.ApprovedAt.IsZero() {
		evt.ApprovedAt = time.Now().UTC()
	}
	evt, err := repo.CreateEvent(context.Background(), evt)
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return evt
}

func CreateClub(t *testing.T, repo club.Repository, c club.Club) club.Club {
	t.Helper()

	c, err := repo.UpsertClub(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateClub() failed: %v", err)
	}
	return c
}

func CreateFeedback(t *testing.T, repo feedback.Repository, text, email string, submittedAt time.Time) feedback.Feedback {
	t.Helper()

	fb, err := repo.CreateFeedback(context.Background(), feedback.Feedback{
		Feedback:    text,
		Email:       email,
		SubmittedAt: submittedAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateFeedback() failed: %v", err)
	}
	return fb
}
