package feedback

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

var (
	// errors
	ErrNotFound = errors.New("feedback not found")

	NowFunc = time.Now // mockable
)

type Feedback struct {
	ID          string    `json:"id"`
	Feedback    string    `json:"feedback"`
	Email       string    `json:"email,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"` // UTC
}

// NewFeedback is what any visitor may send.
type NewFeedback struct {
	Feedback string `json:"feedback" validate:"required,max=5000"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func (nf *NewFeedback) Validate() error {
	nf.Feedback = core.CleanString(nf.Feedback)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	return core.Validate.Struct(nf)
}

type (
	Repository interface {
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		// QueryFeedback returns the newest feedback first.
		QueryFeedback(ctx context.Context) ([]Feedback, error)
		// DeleteFeedback returns ErrNotFound for unknown ids.
		DeleteFeedback(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nf NewFeedback) (Feedback, error) {
	if err := nf.Validate(); err != nil {
		return Feedback{}, err
	}
	fb, err := svc.repo.CreateFeedback(ctx, Feedback{
		Feedback:    nf.Feedback,
		Email:       nf.Email,
		SubmittedAt: NowFunc().UTC(),
	})
	return fb, pkgerrors.Wrap(err, "creating feedback")
}

func (svc *Service) Query(ctx context.Context) ([]Feedback, error) {
	return svc.repo.QueryFeedback(ctx)
}

// MarkRead deletes the feedback: there is no read flag.
func (svc *Service) MarkRead(ctx context.Context, id string) error {
	return svc.repo.DeleteFeedback(ctx, id)
}
