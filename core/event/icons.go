package event

import "strings"

// Categories offered by the submission form, with their icon.
var Categories = []Category{
	{Name: "Academic", Icon: "📚"},
	{Name: "Arts", Icon: "🎨"},
	{Name: "Music", Icon: "🎵"},
	{Name: "Sports", Icon: "⚽"},
	{Name: "Club", Icon: "👥"},
	{Name: "Social", Icon: "🎉"},
	{Name: "Community", Icon: "🤝"},
	{Name: "Fundraiser", Icon: "💰"},
	{Name: "Career", Icon: "💼"},
	{Name: "Other", Icon: DefaultIcon},
}

type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// IconFor returns the icon of category, DefaultIcon for unknown categories.
func IconFor(category string) string {
	for _, c := range Categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(category)) {
			return c.Icon
		}
	}
	return DefaultIcon
}
