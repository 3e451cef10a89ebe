package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eventhub/core/club"
)

const clubColumns = "id, name, description, category, meeting_days, meeting_time, location, sponsor, " +
	"members, leader_email, image_url"

type clubRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	Category    string      `db:"category"`
	MeetingDays null.String `db:"meeting_days"`
	MeetingTime null.String `db:"meeting_time"`
	Location    null.String `db:"location"`
	Sponsor     null.String `db:"sponsor"`
	Members     null.Int    `db:"members"`
	LeaderEmail null.String `db:"leader_email"`
	ImageURL    null.String `db:"image_url"`
}

func toClubRow(c club.Club) clubRow {
	return clubRow{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		MeetingDays: optString(c.MeetingDays),
		MeetingTime: optString(c.MeetingTime),
		Location:    optString(c.Location),
		Sponsor:     optString(c.Sponsor),
		Members:     null.NewInt(c.Members, c.Members > 0),
		LeaderEmail: optString(c.LeaderEmail),
		ImageURL:    optString(c.ImageURL),
	}
}

func (row clubRow) toClub() club.Club {
	return club.Club{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		MeetingDays: row.MeetingDays.String,
		MeetingTime: row.MeetingTime.String,
		Location:    row.Location.String,
		Sponsor:     row.Sponsor.String,
		Members:     row.Members.Int,
		LeaderEmail: row.LeaderEmail.String,
		ImageURL:    row.ImageURL.String,
	}
}

type clubRepository struct {
	db *sqlx.DB
}

var _ club.Repository = (*clubRepository)(nil)

func NewClubRepository(db *sqlx.DB) club.Repository {
	return &clubRepository{db: db}
}

func (repo *clubRepository) QueryClubs(ctx context.Context, filter club.QueryFilter) ([]club.Club, error) {
	w := new(whereClause)
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		w.add("(name ILIKE ? OR description ILIKE ? OR sponsor ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		w.add("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	q := repo.db.Rebind(`SELECT ` + clubColumns + ` FROM clubs` + w.String() + ` ORDER BY LOWER(name), id`)

	var rows []clubRow
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying clubs")
	}
	clubs := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		clubs = append(clubs, row.toClub())
	}
	return clubs, nil
}

func (repo *clubRepository) GetClub(ctx context.Context, id string) (club.Club, error) {
	if !validID(id) {
		return club.Club{}, club.ErrNotFound
	}
	var row clubRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id); err != nil {
		return club.Club{}, trapNoRowsErr(err, club.ErrNotFound, "finding club")
	}
	return row.toClub(), nil
}

func (repo *clubRepository) UpsertClub(ctx context.Context, c club.Club) (club.Club, error) {
	c.ID = uuid.NewString()
	q := `INSERT INTO clubs (` + clubColumns + `) VALUES (:id, :name, :description, :category, :meeting_days,
			:meeting_time, :location, :sponsor, :members, :leader_email, :image_url)
		ON CONFLICT ((LOWER(name))) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
			meeting_days = EXCLUDED.meeting_days, meeting_time = EXCLUDED.meeting_time,
			location = EXCLUDED.location, sponsor = EXCLUDED.sponsor, members = EXCLUDED.members,
			leader_email = EXCLUDED.leader_email, image_url = EXCLUDED.image_url
		RETURNING ` + clubColumns
	rows, err := repo.db.NamedQueryContext(ctx, q, toClubRow(c))
	if err != nil {
		return club.Club{}, errors.Wrap(err, "upserting club")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return club.Club{}, errors.Wrap(err, "upserting club")
		}
		return club.Club{}, errors.New("upserting club: no row returned")
	}
	var row clubRow
	if err = rows.StructScan(&row); err != nil {
		return club.Club{}, errors.Wrap(err, "scanning club")
	}
	return row.toClub(), nil
}
