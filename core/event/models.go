package event

import (
	"strings"
	"time"

	"github.com/trezcool/eventhub/core"
)

// Approve fallbacks: an approved Event never carries an empty display field.
const (
	DefaultTitle          = "Untitled Event"
	DefaultDescription    = "No description provided."
	DefaultCategory       = "General"
	DefaultDate           = "TBD"
	DefaultTime           = "TBD"
	DefaultLocation       = "TBA"
	DefaultOrganizer      = "Unknown organizer"
	DefaultTargetAudience = "All students"
	DefaultIcon           = "📅"

	MeridiemAM = "AM"
	MeridiemPM = "PM"
)

// Submission is an event awaiting review, stored in the pending collection.
type Submission struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	Organizer      string    `json:"organizer"`
	TargetAudience string    `json:"targetAudience,omitempty"`
	Email          string    `json:"email,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Icon           string    `json:"icon"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"` // UTC
}

// Event is an approved, publicly listed event.
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	Organizer      string    `json:"organizer"`
	TargetAudience string    `json:"targetAudience"`
	Email          string    `json:"email"`
	Notes          string    `json:"notes"`
	Icon           string    `json:"icon"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt,omitempty"` // UTC
	ApprovedAt     time.Time `json:"approvedAt"`            // UTC
}

// NewSubmission contains what a visitor provides to submit an event.
type NewSubmission struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Category       string `json:"category" validate:"required"`
	Date           string `json:"date" validate:"required,datekey"`
	Time           string `json:"time" validate:"required,time12h"`
	Meridiem       string `json:"meridiem" validate:"omitempty,oneof=AM PM"`
	Location       string `json:"location" validate:"required"`
	Organizer      string `json:"organizer" validate:"required"`
	TargetAudience string `json:"targetAudience"`
	Email          string `json:"email" validate:"omitempty,email"`
	Notes          string `json:"notes"`
	Icon           string `json:"icon"`
	ImageURL       string `json:"imageUrl" validate:"omitempty,url"`

	today            string // date key the submitted date may not precede
	meridiemConflict bool   // time carried an AM/PM suffix other than Meridiem
}

func (ns *NewSubmission) clean() {
	ns.Title = core.CleanString(ns.Title)
	ns.Description = core.CleanString(ns.Description)
	ns.Category = core.CleanString(ns.Category)
	ns.Date = core.CleanString(ns.Date)
	ns.Time, ns.Meridiem, ns.meridiemConflict = splitMeridiem(ns.Time, ns.Meridiem)
	ns.Location = core.CleanString(ns.Location)
	ns.Organizer = core.CleanString(ns.Organizer)
	ns.TargetAudience = core.CleanString(ns.TargetAudience)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Notes = core.CleanString(ns.Notes)
	ns.Icon = core.CleanString(ns.Icon)
	ns.ImageURL = core.CleanString(ns.ImageURL)
}

// Validate trims every field, then validates all of them, reporting every failure at once.
// today is the date key of the current day; an empty today disables the past-date check.
func (ns *NewSubmission) Validate(today string) error {
	ns.clean()
	ns.today = today
	return core.Validate.Struct(ns)
}

// StoredTime combines the 12-hour time and its meridiem: "09:30 AM".
func (ns NewSubmission) StoredTime() string {
	return joinMeridiem(ns.Time, ns.Meridiem)
}

// UpdateSubmission holds the fields an admin may change on a pending submission.
// nil fields are left untouched.
type UpdateSubmission struct {
	Title          *string `json:"title" validate:"omitempty,notblank"`
	Description    *string `json:"description" validate:"omitempty,notblank"`
	Category       *string `json:"category" validate:"omitempty,notblank"`
	Date           *string `json:"date" validate:"omitempty,datekey"`
	Time           *string `json:"time" validate:"omitempty,time12h"`
	Meridiem       *string `json:"meridiem" validate:"omitempty,oneof=AM PM"`
	Location       *string `json:"location" validate:"omitempty,notblank"`
	Organizer      *string `json:"organizer" validate:"omitempty,notblank"`
	TargetAudience *string `json:"targetAudience"`
	Email          *string `json:"email" validate:"omitempty,optemail"`
	Notes          *string `json:"notes"`
	Icon           *string `json:"icon"`
	ImageURL       *string `json:"imageUrl"`

	meridiemConflict bool
}

func cleanPtr(s *string, lower ...bool) {
	if s != nil {
		*s = core.CleanString(*s, lower...)
	}
}

func (us *UpdateSubmission) clean() {
	cleanPtr(us.Title)
	cleanPtr(us.Description)
	cleanPtr(us.Category)
	cleanPtr(us.Date)
	if us.Time != nil {
		var mer string
		if us.Meridiem != nil {
			mer = *us.Meridiem
		}
		tm, mer, conflict := splitMeridiem(*us.Time, mer)
		us.Time, us.Meridiem, us.meridiemConflict = &tm, &mer, conflict
	} else {
		us.Meridiem = nil // only meaningful along with a time
	}
	cleanPtr(us.Location)
	cleanPtr(us.Organizer)
	cleanPtr(us.TargetAudience)
	cleanPtr(us.Email, true /* lower */)
	cleanPtr(us.Notes)
	cleanPtr(us.Icon)
	cleanPtr(us.ImageURL)
}

// Validate trims and validates the provided fields only.
func (us *UpdateSubmission) Validate() error {
	us.clean()
	return core.Validate.Struct(us)
}

func (us UpdateSubmission) IsEmpty() bool {
	return len(us.Fields()) == 0
}

// Fields returns the provided fields keyed by their JSON name, time already combined with its meridiem.
func (us UpdateSubmission) Fields() map[string]string {
	fields := make(map[string]string)
	set := func(name string, val *string) {
		if val != nil {
			fields[name] = *val
		}
	}
	set("title", us.Title)
	set("description", us.Description)
	set("category", us.Category)
	set("date", us.Date)
	if us.Time != nil {
		var mer string
		if us.Meridiem != nil {
			mer = *us.Meridiem
		}
		fields["time"] = joinMeridiem(*us.Time, mer)
	}
	set("location", us.Location)
	set("organizer", us.Organizer)
	set("targetAudience", us.TargetAudience)
	set("email", us.Email)
	set("notes", us.Notes)
	set("icon", us.Icon)
	set("imageUrl", us.ImageURL)
	return fields
}

// ApplyTo merges the provided fields into sub.
func (us UpdateSubmission) ApplyTo(sub *Submission) {
	for name, val := range us.Fields() {
		switch name {
		case "title":
			sub.Title = val
		case "description":
			sub.Description = val
		case "category":
			sub.Category = val
		case "date":
			sub.Date = val
		case "time":
			sub.Time = val
		case "location":
			sub.Location = val
		case "organizer":
			sub.Organizer = val
		case "targetAudience":
			sub.TargetAudience = val
		case "email":
			sub.Email = val
		case "notes":
			sub.Notes = val
		case "icon":
			sub.Icon = val
		case "imageUrl":
			sub.ImageURL = val
		}
	}
}

// QueryFilter applies AND on its non-empty fields.
// Search does a case-insensitive match on one of Title, Description, Location or Organizer.
type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	From     string `query:"from"` // date key, inclusive
	To       string `query:"to"`   // date key, inclusive
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
	qf.From = core.NormalizeDateKey(qf.From)
	qf.To = core.NormalizeDateKey(qf.To)
}

func (qf QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.From == "" && qf.To == ""
}

// Match is the reference semantics of the filter, used by stores that filter in memory.
func (qf QueryFilter) Match(title, description, category, date, location, organizer string) bool {
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		found := false
		for _, s := range []string{title, description, location, organizer} {
			if strings.Contains(strings.ToLower(s), search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.Category != "" && !strings.EqualFold(qf.Category, category) {
		return false
	}
	key := core.NormalizeDateKey(date)
	if qf.From != "" && key < qf.From {
		return false
	}
	if qf.To != "" && key > qf.To {
		return false
	}
	return true
}

// OrderingFields maps the API ordering names to the JSON field names of Submission and Event.
var OrderingFields = map[string]string{
	"date":        "date",
	"title":       "title",
	"category":    "category",
	"organizer":   "organizer",
	"submittedAt": "submittedAt",
	"approvedAt":  "approvedAt",
}

// DefaultOrdering lists events chronologically.
var DefaultOrdering = []core.DBOrdering{{Field: "date", Ascending: true}, {Field: "title", Ascending: true}}

// splitMeridiem strips an AM/PM suffix from tm, which stands in for an empty mer.
// It reports a conflict when both are given and differ; mer is then kept.
func splitMeridiem(tm, mer string) (string, string, bool) {
	tm = core.CleanString(tm)
	mer = strings.ToUpper(core.CleanString(mer))
	upper := strings.ToUpper(tm)
	conflict := false
	for _, m := range []string{MeridiemAM, MeridiemPM} {
		if strings.HasSuffix(upper, m) {
			tm = core.CleanString(tm[:len(tm)-len(m)])
			if mer == "" {
				mer = m
			} else {
				conflict = mer != m
			}
			break
		}
	}
	if mer == "" {
		mer = MeridiemAM
	}
	return tm, mer, conflict
}

func joinMeridiem(tm, mer string) string {
	if mer == "" {
		mer = MeridiemAM
	}
	return tm + " " + mer
}
