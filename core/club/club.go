package club

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

// errors
var ErrNotFound = errors.New("club not found")

type Club struct {
	ID          string `json:"id" toml:"-"`
	Name        string `json:"name" toml:"name" validate:"required"`
	Description string `json:"description" toml:"description" validate:"required"`
	Category    string `json:"category" toml:"category" validate:"required"`
	MeetingDays string `json:"meetingDays,omitempty" toml:"meeting_days"`
	MeetingTime string `json:"meetingTime,omitempty" toml:"meeting_time"`
	Location    string `json:"location,omitempty" toml:"location"`
	Sponsor     string `json:"sponsor,omitempty" toml:"sponsor"`
	Members     int    `json:"members,omitempty" toml:"members" validate:"gte=0"`
	LeaderEmail string `json:"leaderEmail,omitempty" toml:"leader_email" validate:"omitempty,email"`
	ImageURL    string `json:"imageUrl,omitempty" toml:"image_url" validate:"omitempty,url"`
}

func (c *Club) clean() {
	c.Name = core.CleanString(c.Name)
	c.Description = core.CleanString(c.Description)
	c.Category = core.CleanString(c.Category)
	c.MeetingDays = core.CleanString(c.MeetingDays)
	c.MeetingTime = core.CleanString(c.MeetingTime)
	c.Location = core.CleanString(c.Location)
	c.Sponsor = core.CleanString(c.Sponsor)
	c.LeaderEmail = core.CleanString(c.LeaderEmail, true /* lower */)
	c.ImageURL = core.CleanString(c.ImageURL)
}

// QueryFilter applies AND on its non-empty fields.
// Search does a case-insensitive match on one of Name, Description or Sponsor.
type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
}

func (qf QueryFilter) Match(c Club) bool {
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !(strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Description), search) ||
			strings.Contains(strings.ToLower(c.Sponsor), search)) {
			return false
		}
	}
	return qf.Category == "" || strings.EqualFold(qf.Category, c.Category)
}

type (
	Repository interface {
		// QueryClubs returns the matching clubs ordered by name.
		QueryClubs(ctx context.Context, filter QueryFilter) ([]Club, error)
		GetClub(ctx context.Context, id string) (Club, error)
		// UpsertClub creates or replaces the club with the same name.
		UpsertClub(ctx context.Context, c Club) (Club, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Club, error) {
	filter.Clean()
	return svc.repo.QueryClubs(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Club, error) {
	return svc.repo.GetClub(ctx, id)
}

// Categories returns the distinct club categories, sorted.
func (svc *Service) Categories(ctx context.Context) ([]string, error) {
	clubs, err := svc.repo.QueryClubs(ctx, QueryFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying clubs")
	}
	seen := make(map[string]bool)
	cats := make([]string, 0)
	for _, c := range clubs {
		key := strings.ToLower(c.Category)
		if c.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		cats = append(cats, c.Category)
	}
	sort.Strings(cats)
	return cats, nil
}

type importFile struct {
	Clubs []Club `toml:"clubs"`
}

// Import reads a TOML document of [[clubs]] tables and upserts every club.
// Nothing is written unless all clubs are valid.
func (svc *Service) Import(ctx context.Context, r io.Reader) ([]Club, error) {
	var file importFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding clubs file")
	}

	for i := range file.Clubs {
		file.Clubs[i].clean()
		if err := core.Validate.Struct(file.Clubs[i]); err != nil {
			return nil, pkgerrors.Wrapf(err, "club #%d (%q)", i+1, file.Clubs[i].Name)
		}
	}

	saved := make([]Club, 0, len(file.Clubs))
	for _, c := range file.Clubs {
		sc, err := svc.repo.UpsertClub(ctx, c)
		if err != nil {
			return saved, pkgerrors.Wrapf(err, "saving club %q", c.Name)
		}
		saved = append(saved, sc)
	}
	return saved, nil
}
