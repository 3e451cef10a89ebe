package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

const (
	pendingTable  = "pending_events"
	approvedTable = "approved_events"

	submissionColumns = "id, title, description, category, date, time, location, organizer, " +
		"target_audience, email, notes, icon, image_url, submitted_at"
	eventColumns = submissionColumns + ", approved_at"
)

// eventOrderColumns maps the ordering fields to SQL expressions.
var eventOrderColumns = map[string]string{
	"date":        "LEFT(TRIM(date), 10)",
	"title":       "LOWER(title)",
	"category":    "LOWER(category)",
	"organizer":   "LOWER(organizer)",
	"submittedAt": "submitted_at",
	"approvedAt":  "approved_at",
}

// submissionOrderColumns is eventOrderColumns without approvedAt.
var submissionOrderColumns = func() map[string]string {
	cols := make(map[string]string, len(eventOrderColumns))
	for k, v := range eventOrderColumns {
		if k != "approvedAt" {
			cols[k] = v
		}
	}
	return cols
}()

type submissionRow struct {
	ID             string      `db:"id"`
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	Category       string      `db:"category"`
	Date           string      `db:"date"`
	Time           string      `db:"time"`
	Location       string      `db:"location"`
	Organizer      string      `db:"organizer"`
	TargetAudience null.String `db:"target_audience"`
	Email          null.String `db:"email"`
	Notes          null.String `db:"notes"`
	Icon           string      `db:"icon"`
	ImageURL       null.String `db:"image_url"`
	SubmittedAt    null.Time   `db:"submitted_at"`
}

type eventRow struct {
	submissionRow
	ApprovedAt null.Time `db:"approved_at"`
}

func optString(s string) null.String {
	return null.NewString(s, s != "")
}

func toSubmissionRow(sub event.Submission) submissionRow {
	return submissionRow{
		ID:             sub.ID,
		Title:          sub.Title,
		Description:    sub.Description,
		Category:       sub.Category,
		Date:           sub.Date,
		Time:           sub.Time,
		Location:       sub.Location,
		Organizer:      sub.Organizer,
		TargetAudience: optString(sub.TargetAudience),
		Email:          optString(sub.Email),
		Notes:          optString(sub.Notes),
		Icon:           sub.Icon,
		ImageURL:       optString(sub.ImageURL),
		SubmittedAt:    null.NewTime(sub.SubmittedAt.UTC(), !sub.SubmittedAt.IsZero()),
	}
}

func (row submissionRow) toSubmission() event.Submission {
	return event.Submission{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Category:       row.Category,
		Date:           row.Date,
		Time:           row.Time,
		Location:       row.Location,
		Organizer:      row.Organizer,
		TargetAudience: row.TargetAudience.String,
		Email:          row.Email.String,
		Notes:          row.Notes.String,
		Icon:           row.Icon,
		ImageURL:       row.ImageURL.String,
		SubmittedAt:    row.SubmittedAt.Time.UTC(),
	}
}

func toEventRow(evt event.Event) eventRow {
	row := eventRow{
		submissionRow: toSubmissionRow(event.Submission{
			ID:             evt.ID,
			Title:          evt.Title,
			Description:    evt.Description,
			Category:       evt.Category,
			Date:           evt.Date,
			Time:           evt.Time,
			Location:       evt.Location,
			Organizer:      evt.Organizer,
			TargetAudience: evt.TargetAudience,
			Icon:           evt.Icon,
			ImageURL:       evt.ImageURL,
			SubmittedAt:    evt.SubmittedAt,
		}),
		ApprovedAt: null.TimeFrom(evt.ApprovedAt.UTC()),
	}
	// NOT NULL on the approved table
	row.TargetAudience = null.StringFrom(evt.TargetAudience)
	row.Email = null.StringFrom(evt.Email)
	row.Notes = null.StringFrom(evt.Notes)
	return row
}

func (row eventRow) toEvent() event.Event {
	sub := row.toSubmission()
	return event.Event{
		ID:             sub.ID,
		Title:          sub.Title,
		Description:    sub.Description,
		Category:       sub.Category,
		Date:           sub.Date,
		Time:           sub.Time,
		Location:       sub.Location,
		Organizer:      sub.Organizer,
		TargetAudience: sub.TargetAudience,
		Email:          sub.Email,
		Notes:          sub.Notes,
		Icon:           sub.Icon,
		ImageURL:       sub.ImageURL,
		SubmittedAt:    sub.SubmittedAt,
		ApprovedAt:     row.ApprovedAt.Time.UTC(),
	}
}

// filterClause is the SQL rendition of event.QueryFilter.Match.
func filterClause(filter event.QueryFilter) *whereClause {
	w := new(whereClause)
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		w.add("(title ILIKE ? OR description ILIKE ? OR location ILIKE ? OR organizer ILIKE ?)", pattern, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		w.add("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.From != "" {
		w.add("LEFT(TRIM(date), 10) >= ?", filter.From)
	}
	if filter.To != "" {
		w.add("LEFT(TRIM(date), 10) <= ?", filter.To)
	}
	return w
}

type eventRepository struct {
	db *sqlx.DB
}

var (
	_ event.Repository = (*eventRepository)(nil)
	_ event.TxApprover = (*eventRepository)(nil)
)

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func insertSubmission(ctx context.Context, exec executor, row submissionRow) error {
	q := `INSERT INTO ` + pendingTable + ` (` + submissionColumns + `) VALUES (:id, :title, :description, :category,
		:date, :time, :location, :organizer, :target_audience, :email, :notes, :icon, :image_url, :submitted_at)`
	_, err := exec.NamedExecContext(ctx, q, row)
	return err
}

func insertEvent(ctx context.Context, exec executor, row eventRow) error {
	q := `INSERT INTO ` + approvedTable + ` (` + eventColumns + `) VALUES (:id, :title, :description, :category,
		:date, :time, :location, :organizer, :target_audience, :email, :notes, :icon, :image_url, :submitted_at,
		:approved_at)`
	_, err := exec.NamedExecContext(ctx, q, row)
	return err
}

func deleteByID(ctx context.Context, exec executor, table, id string, notFound error) error {
	if !validID(id) {
		return notFound
	}
	res, err := exec.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", table)
	}
	return checkAffected(res, notFound)
}

func (repo *eventRepository) CreateSubmission(ctx context.Context, sub event.Submission) (event.Submission, error) {
	sub.ID = uuid.NewString()
	if err := insertSubmission(ctx, repo.db, toSubmissionRow(sub)); err != nil {
		return event.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo *eventRepository) QuerySubmissions(ctx context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Submission, error) {
	w := filterClause(filter)
	q := repo.db.Rebind(`SELECT ` + submissionColumns + ` FROM ` + pendingTable + w.String() + orderBy(ordering, submissionOrderColumns))

	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]event.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toSubmission())
	}
	return subs, nil
}

func (repo *eventRepository) GetSubmission(ctx context.Context, id string) (event.Submission, error) {
	if !validID(id) {
		return event.Submission{}, event.ErrSubmissionNotFound
	}
	var row submissionRow
	q := `SELECT ` + submissionColumns + ` FROM ` + pendingTable + ` WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return event.Submission{}, trapNoRowsErr(err, event.ErrSubmissionNotFound, "finding submission")
	}
	return row.toSubmission(), nil
}

func (repo *eventRepository) UpdateSubmission(ctx context.Context, id string, upd event.UpdateSubmission) (event.Submission, error) {
	if !validID(id) {
		return event.Submission{}, event.ErrSubmissionNotFound
	}

	var (
		sets []string
		args []interface{}
	)
	for field, val := range upd.Fields() {
		col, ok := updatableColumns[field]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		if nullableColumns[col] {
			args = append(args, optString(val))
		} else {
			args = append(args, val)
		}
	}
	if len(sets) == 0 {
		return repo.GetSubmission(ctx, id)
	}
	args = append(args, id)

	q := repo.db.Rebind(`UPDATE ` + pendingTable + ` SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + submissionColumns)
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return event.Submission{}, trapNoRowsErr(err, event.ErrSubmissionNotFound, "updating submission")
	}
	return row.toSubmission(), nil
}

var (
	// updatableColumns maps UpdateSubmission.Fields keys to columns.
	updatableColumns = map[string]string{
		"title":          "title",
		"description":    "description",
		"category":       "category",
		"date":           "date",
		"time":           "time",
		"location":       "location",
		"organizer":      "organizer",
		"targetAudience": "target_audience",
		"email":          "email",
		"notes":          "notes",
		"icon":           "icon",
		"imageUrl":       "image_url",
	}
	nullableColumns = map[string]bool{"target_audience": true, "email": true, "notes": true, "image_url": true}
)

func (repo *eventRepository) DeleteSubmission(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.db, pendingTable, id, event.ErrSubmissionNotFound)
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = uuid.NewString()
	if err := insertEvent(ctx, repo.db, toEventRow(evt)); err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Event, error) {
	w := filterClause(filter)
	q := repo.db.Rebind(`SELECT ` + eventColumns + ` FROM ` + approvedTable + w.String() + orderBy(ordering, eventOrderColumns))

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	evts := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		evts = append(evts, row.toEvent())
	}
	return evts, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	if !validID(id) {
		return event.Event{}, event.ErrNotFound
	}
	var row eventRow
	q := `SELECT ` + eventColumns + ` FROM ` + approvedTable + ` WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return event.Event{}, trapNoRowsErr(err, event.ErrNotFound, "finding event")
	}
	return row.toEvent(), nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.db, approvedTable, id, event.ErrNotFound)
}

// ApproveSubmission inserts the event and deletes the submission in one transaction.
func (repo *eventRepository) ApproveSubmission(ctx context.Context, evt event.Event, submissionID string) (event.Event, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err = deleteByID(ctx, tx, pendingTable, submissionID, event.ErrSubmissionNotFound); err != nil {
		return event.Event{}, err
	}
	evt.ID = uuid.NewString()
	if err = insertEvent(ctx, tx, toEventRow(evt)); err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	if err = tx.Commit(); err != nil {
		return event.Event{}, errors.Wrap(err, "committing approval")
	}
	return evt, nil
}
