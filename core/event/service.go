package event

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

var (
	// errors
	ErrNotFound           = errors.New("event not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNothingToUpdate    = errors.New("no field to update")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// QuerySubmissions applies QueryFilter and orders by the given (already mapped) orderings.
		QuerySubmissions(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Submission, error)
		GetSubmission(ctx context.Context, id string) (Submission, error)
		// UpdateSubmission only writes the provided fields; it returns ErrSubmissionNotFound for unknown ids.
		UpdateSubmission(ctx context.Context, id string, upd UpdateSubmission) (Submission, error)
		DeleteSubmission(ctx context.Context, id string) error

		CreateEvent(ctx context.Context, evt Event) (Event, error)
		QueryEvents(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Event, error)
		GetEvent(ctx context.Context, id string) (Event, error)
		DeleteEvent(ctx context.Context, id string) error
	}

	// TxApprover is implemented by stores that can move a submission to the approved
	// collection in a single transaction: either both writes happen or none does.
	TxApprover interface {
		ApproveSubmission(ctx context.Context, evt Event, submissionID string) (Event, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

// PartialApprovalError reports an approve whose event was created
// but whose submission could not be removed: both now exist.
type PartialApprovalError struct {
	Event        Event
	SubmissionID string
	Err          error
}

func (e *PartialApprovalError) Error() string {
	return fmt.Sprintf("event %s approved but submission %s is still pending: %v", e.Event.ID, e.SubmissionID, e.Err)
}

func (e *PartialApprovalError) Unwrap() error { return e.Err }

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Today returns the date key of the current day in the school's timezone.
func (svc *Service) Today() string {
	return core.DateKey(NowFunc().In(svc.conf.Location()))
}

func (svc *Service) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(svc.Today()); err != nil {
		return Submission{}, err
	}

	icon := ns.Icon
	if icon == "" {
		icon = IconFor(ns.Category)
	}
	sub := Submission{
		Title:          ns.Title,
		Description:    ns.Description,
		Category:       ns.Category,
		Date:           ns.Date,
		Time:           ns.StoredTime(),
		Location:       ns.Location,
		Organizer:      ns.Organizer,
		TargetAudience: ns.TargetAudience,
		Email:          ns.Email,
		Notes:          ns.Notes,
		Icon:           icon,
		ImageURL:       ns.ImageURL,
		SubmittedAt:    NowFunc().UTC(),
	}
	sub, err := svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, pkgerrors.Wrap(err, "creating submission")
	}

	svc.sendSubmissionReceivedEmail(sub)
	return sub, nil
}

func (svc *Service) QueryPending(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Submission, error) {
	filter.Clean()
	return svc.repo.QuerySubmissions(ctx, filter, svc.ordering(ordering)...)
}

func (svc *Service) GetSubmission(ctx context.Context, id string) (Submission, error) {
	return svc.repo.GetSubmission(ctx, id)
}

// Edit applies a partial update to a pending submission.
func (svc *Service) Edit(ctx context.Context, id string, us UpdateSubmission) (Submission, error) {
	if err := us.Validate(); err != nil {
		return Submission{}, err
	}
	if us.IsEmpty() {
		return Submission{}, core.NewValidationError(ErrNothingToUpdate)
	}
	return svc.repo.UpdateSubmission(ctx, id, us)
}

// NewEventFromSubmission builds the approved copy of sub, defaulting every empty display field.
func NewEventFromSubmission(sub Submission, approvedAt time.Time) Event {
	orDefault := func(s, def string) string {
		if s = core.CleanString(s); s != "" {
			return s
		}
		return def
	}
	return Event{
		Title:          orDefault(sub.Title, DefaultTitle),
		Description:    orDefault(sub.Description, DefaultDescription),
		Category:       orDefault(sub.Category, DefaultCategory),
		Date:           orDefault(sub.Date, DefaultDate),
		Time:           orDefault(sub.Time, DefaultTime),
		Location:       orDefault(sub.Location, DefaultLocation),
		Organizer:      orDefault(sub.Organizer, DefaultOrganizer),
		TargetAudience: orDefault(sub.TargetAudience, DefaultTargetAudience),
		Email:          core.CleanString(sub.Email),
		Notes:          core.CleanString(sub.Notes),
		Icon:           orDefault(sub.Icon, DefaultIcon),
		ImageURL:       core.CleanString(sub.ImageURL),
		SubmittedAt:    sub.SubmittedAt,
		ApprovedAt:     approvedAt.UTC(),
	}
}

// Approve moves a pending submission to the approved events.
//
// Stores implementing TxApprover do it atomically. Other stores get two independent
// writes, create then delete: the move is at-least-once. If the delete fails after the
// create succeeded, a *PartialApprovalError carrying the created Event is returned and
// nothing is retried; the submission stays pending next to its approved copy.
func (svc *Service) Approve(ctx context.Context, id string) (Event, error) {
	sub, err := svc.repo.GetSubmission(ctx, id)
	if err != nil {
		return Event{}, pkgerrors.Wrap(err, "finding submission")
	}
	evt := NewEventFromSubmission(sub, NowFunc())

	if txRepo, ok := svc.repo.(TxApprover); ok {
		evt, err = txRepo.ApproveSubmission(ctx, evt, sub.ID)
		if err != nil {
			return Event{}, pkgerrors.Wrap(err, "approving submission")
		}
	} else {
		evt, err = svc.repo.CreateEvent(ctx, evt)
		if err != nil {
			return Event{}, pkgerrors.Wrap(err, "creating event")
		}
		if err = svc.repo.DeleteSubmission(ctx, sub.ID); err != nil {
			return evt, &PartialApprovalError{Event: evt, SubmissionID: sub.ID, Err: err}
		}
	}

	svc.sendReviewEmail(sub, "submission_approved", "Your event was approved")
	return evt, nil
}

// Decline deletes a pending submission.
func (svc *Service) Decline(ctx context.Context, id string) error {
	sub, err := svc.repo.GetSubmission(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(err, "finding submission")
	}
	if err = svc.repo.DeleteSubmission(ctx, sub.ID); err != nil {
		return pkgerrors.Wrap(err, "deleting submission")
	}

	svc.sendReviewEmail(sub, "submission_declined", "Your event submission was declined")
	return nil
}

func (svc *Service) QueryEvents(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Event, error) {
	filter.Clean()
	return svc.repo.QueryEvents(ctx, filter, svc.ordering(ordering)...)
}

func (svc *Service) GetEvent(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

func (svc *Service) DeleteEvent(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}

func (svc *Service) ordering(ordering []core.DBOrdering) []core.DBOrdering {
	if ord := core.FilterOrderings(ordering, OrderingFields); len(ord) > 0 {
		return ord
	}
	return DefaultOrdering
}

func (svc *Service) sendSubmissionReceivedEmail(sub Submission) {
	to := svc.conf.AdminAddresses()
	if len(to) == 0 || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           to,
		Subject:      "New event submission: " + sub.Title,
		TemplateName: "submission_received",
		TemplateData: sub,
	})
}

func (svc *Service) sendReviewEmail(sub Submission, tmpl, subject string) {
	if sub.Email == "" || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sub.Organizer, Address: sub.Email}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: sub,
	})
}
