package calendar

import (
	"fmt"
	"strings"
)

// Kind is the closed set of calendar entry kinds.
type Kind uint8

const (
	KindProD Kind = iota
	KindHoliday
	KindCollab
	KindUserEvent

	kindCount // keep last
)

// KindStyle is how an entry kind is tagged, labelled and drawn.
type KindStyle struct {
	Tag       string // wire value
	MessageID string // label message id in the locale files
	Label     string // English label, used when no translation is found
	Color     string
	Icon      string
}

var kindStyles = [...]KindStyle{
	KindProD:      {Tag: "pro-d", MessageID: "CalendarKindProD", Label: "Pro-D Day", Color: "#8b5cf6", Icon: "📝"},
	KindHoliday:   {Tag: "holiday", MessageID: "CalendarKindHoliday", Label: "Holiday", Color: "#ef4444", Icon: "🏖️"},
	KindCollab:    {Tag: "collab", MessageID: "CalendarKindCollab", Label: "Collaboration Day", Color: "#f59e0b", Icon: "🤝"},
	KindUserEvent: {Tag: "user-event", MessageID: "CalendarKindUserEvent", Label: "School Event", Color: "#3b82f6", Icon: "📅"},
}

// every Kind needs exactly one style: this fails to compile otherwise
var _ = [1]struct{}{}[len(kindStyles)-int(kindCount)]

// Kinds returns every Kind, in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k < kindCount }

// Style returns the style of k; an invalid Kind gets the zero KindStyle.
func (k Kind) Style() KindStyle {
	if !k.Valid() {
		return KindStyle{}
	}
	return kindStyles[k]
}

// String returns the wire tag of k.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindStyles[k].Tag
}

// ParseKind maps a wire tag back to its Kind, case-insensitively.
func ParseKind(tag string) (Kind, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for k := Kind(0); k < kindCount; k++ {
		if kindStyles[k].Tag == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("calendar: unknown entry kind %q", tag)
}

// MarshalText encodes k as its wire tag.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("calendar: invalid entry kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire tag with ParseKind.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
