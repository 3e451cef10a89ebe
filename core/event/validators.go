package event

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eventhub/core"
)

var (
	time12hTag   = "time12h"
	time12hText  = "{0} must be a 12-hour time formatted as hh:mm"
	time12hRegex = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9]$`)

	notPastTag  = "notpast"
	notPastText = "{0} cannot be in the past"

	meridiemTag  = "meridiemmatch"
	meridiemText = "{0} does not match the AM/PM given with time"

	optEmailTag = "optemail"
	emailText   = "{0} must be a valid email address"
)

func init() {
	_ = core.Validate.RegisterValidation(time12hTag, time12hValidation)
	core.RegisterCustomTranslation(time12hTag, time12hText)

	_ = core.Validate.RegisterValidation(optEmailTag, optEmailValidation)
	core.RegisterCustomTranslation(optEmailTag, emailText)

	core.RegisterCustomTranslation(notPastTag, notPastText)
	core.RegisterCustomTranslation(meridiemTag, meridiemText)
	core.Validate.RegisterStructValidation(submissionStructValidation, NewSubmission{}, UpdateSubmission{})
}

// time12hValidation only allows hh:mm with hours 01-12 and minutes 00-59.
func time12hValidation(fl validator.FieldLevel) bool {
	return time12hRegex.MatchString(fl.Field().String())
}

// optEmailValidation allows clearing an email with an empty value.
func optEmailValidation(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	return email == "" || core.Validate.Var(email, "email") == nil
}

// submissionStructValidation rejects a meridiem contradicting the time's own AM/PM suffix,
// and a new submission's date strictly before its today.
// Unparsable dates are left to the `datekey` field rule.
func submissionStructValidation(sl validator.StructLevel) {
	switch sub := sl.Current().Interface().(type) {
	case NewSubmission:
		if sub.meridiemConflict {
			sl.ReportError(sub.Meridiem, "meridiem", "Meridiem", meridiemTag, "")
		}
		if sub.today == "" {
			return
		}
		if _, err := core.ParseDateKey(sub.Date, nil); err != nil {
			return
		}
		if sub.Date < sub.today {
			sl.ReportError(sub.Date, "date", "Date", notPastTag, "")
		}
	case UpdateSubmission:
		if sub.meridiemConflict {
			sl.ReportError(sub.Meridiem, "meridiem", "Meridiem", meridiemTag, "")
		}
	}
}
