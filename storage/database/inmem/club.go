package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/eventhub/core/club"
)

type clubRepository struct {
	db *clubTable
}

var _ club.Repository = (*clubRepository)(nil)

func NewClubRepository(db *DB) club.Repository {
	return &clubRepository{db: db.club}
}

func (repo *clubRepository) QueryClubs(_ context.Context, filter club.QueryFilter) ([]club.Club, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	clubs := make([]club.Club, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if filter.Match(*c) {
			clubs = append(clubs, *c)
		}
	}
	sort.Slice(clubs, func(i, j int) bool { return strings.ToLower(clubs[i].Name) < strings.ToLower(clubs[j].Name) })
	return clubs, nil
}

func (repo *clubRepository) GetClub(_ context.Context, id string) (club.Club, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return club.Club{}, club.ErrNotFound
}

func (repo *clubRepository) UpsertClub(_ context.Context, c club.Club) (club.Club, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = ""
	for id, orig := range repo.db.table {
		if strings.EqualFold(orig.Name, c.Name) {
			c.ID = id
			break
		}
	}
	if c.ID == "" {
		c.ID = newID()
	}
	repo.db.table[c.ID] = &c
	return c, nil
}
