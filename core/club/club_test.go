package club_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/storage/database/inmem"
)

const clubsFile = `
[[clubs]]
name = "Robotics"
description = "Build and program robots for competitions."
category = "STEM"
meeting_days = "Tuesday, Thursday"
meeting_time = "3:15 PM"
location = "Room 204"
sponsor = "Ms. Patel"
members = 18
leader_email = "Robotics@School.test"

[[clubs]]
name = "Chess"
description = "Casual and tournament chess."
category = "Games"
sponsor = "Mr. Lee"

[[clubs]]
name = "Coding"
description = "Learn to code with friends."
category = "stem"
`

func names(clubs []club.Club) []string {
	out := make([]string, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, c.Name)
	}
	return out
}

func TestService_Import(t *testing.T) {
	svc := club.NewService(inmemdb.NewClubRepository(inmemdb.NewDB()))
	ctx := context.Background()

	saved, err := svc.Import(ctx, strings.NewReader(clubsFile))
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, "robotics@school.test", saved[0].LeaderEmail)
	assert.Equal(t, 18, saved[0].Members)
	assert.Equal(t, "Tuesday, Thursday", saved[0].MeetingDays)

	t.Run("re-import replaces by name", func(t *testing.T) {
		again, err := svc.Import(ctx, strings.NewReader(`
[[clubs]]
name = "chess"
description = "Now with a spring tournament."
category = "Games"
`))
		require.NoError(t, err)
		require.Len(t, again, 1)

		got, err := svc.GetByID(ctx, again[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Now with a spring tournament.", got.Description)

		all, err := svc.Query(ctx, club.QueryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("invalid file writes nothing", func(t *testing.T) {
		_, err := svc.Import(ctx, strings.NewReader(`
[[clubs]]
name = "Drama"
description = "Plays and musicals."
category = "Arts"

[[clubs]]
name = "Nameless"
category = "Arts"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `club #2 ("Nameless")`)

		all, err := svc.Query(ctx, club.QueryFilter{Search: "drama"})
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("unknown fields", func(t *testing.T) {
		_, err := svc.Import(ctx, strings.NewReader("[[clubs]]\nname = \"Drama\"\nmascot = \"owl\"\n"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := svc.Import(ctx, strings.NewReader("[[clubs]\nname = "))
		assert.Error(t, err)
	})
}

func TestService_Query(t *testing.T) {
	svc := club.NewService(inmemdb.NewClubRepository(inmemdb.NewDB()))
	ctx := context.Background()
	_, err := svc.Import(ctx, strings.NewReader(clubsFile))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter club.QueryFilter
		want   []string
	}{
		{name: "all, by name", want: []string{"Chess", "Coding", "Robotics"}},
		{name: "category ignores case", filter: club.QueryFilter{Category: "STEM"}, want: []string{"Coding", "Robotics"}},
		{name: "search sponsor", filter: club.QueryFilter{Search: " lee "}, want: []string{"Chess"}},
		{name: "search description", filter: club.QueryFilter{Search: "ROBOTS"}, want: []string{"Robotics"}},
		{name: "no match", filter: club.QueryFilter{Search: "knitting"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clubs, err := svc.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(clubs))
		})
	}

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Games", "stem"}, cats, "first spelling wins")

	_, err = svc.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, club.ErrNotFound))
}
