package inflight

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	cache "github.com/barrett370/inflightcache"
)

type user struct {
	ID   int
	Name string
}

func newUser(id int) user { return user{ID: id, Name: strconv.Itoa(id)} }

// fakeSource returns one user per requested id, except ids in omit.
type fakeSource struct {
	mu    sync.Mutex
	calls [][]int
	delay time.Duration
	err   error
	omit  map[int]bool
}

func (s *fakeSource) IDOf(u user) int { return u.ID }

func (s *fakeSource) Fetch(_ context.Context, ids []int) ([]user, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.calls = append(s.calls, slices.Clone(ids))
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]user, 0, len(ids))
	for _, id := range ids {
		if !s.omit[id] {
			out = append(out, newUser(id))
		}
	}
	return out, nil
}

func (s *fakeSource) Calls() [][]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

func storeWith(ids ...int) *cache.Cache[int, Entry[user]] {
	store := cache.New[int, Entry[user]](0)
	for _, id := range ids {
		store.Set(id, Resolved(newUser(id)))
	}
	return store
}
