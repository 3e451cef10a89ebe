// Package inmemdb is the in-memory store: the default engine for local runs and the test backend.
package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	// pending submissions and approved events share a lock so that an approve is atomic.
	eventTables struct {
		mutex       sync.RWMutex
		submissions map[string]*event.Submission
		events      map[string]*event.Event
	}

	feedbackTable struct {
		mutex sync.RWMutex
		table map[string]*feedback.Feedback
	}

	clubTable struct {
		mutex sync.RWMutex
		table map[string]*club.Club
	}

	DB struct {
		user     *userTable
		event    *eventTables
		feedback *feedbackTable
		club     *clubTable
	}
)

func NewDB() *DB {
	return &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		event:    &eventTables{submissions: make(map[string]*event.Submission), events: make(map[string]*event.Event)},
		feedback: &feedbackTable{table: make(map[string]*feedback.Feedback)},
		club:     &clubTable{table: make(map[string]*club.Club)},
	}
}

func newID() string {
	return uuid.NewString()
}

// orderBy sorts objs in place by the orderings, looking fields up through get.
// Remaining ties are broken by id for a stable output.
func orderBy[T any](objs []T, ordering []core.DBOrdering, get func(obj T, field string) string, id func(obj T) string) {
	sort.SliceStable(objs, func(i, j int) bool {
		for _, ord := range ordering {
			a, b := get(objs[i], ord.Field), get(objs[j], ord.Field)
			if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return id(objs[i]) < id(objs[j])
	})
}
