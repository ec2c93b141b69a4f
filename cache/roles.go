// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// roleSet is a concurrency-safe set of role ids. Membership is rewritten
// by gateway events while arbitrary callers snapshot it, so all access
// goes through the set's own lock.
type roleSet struct {
	mu  sync.RWMutex
	ids map[snowflake.ID]struct{}
}

func newRoleSet(ids ...snowflake.ID) *roleSet {
	s := &roleSet{ids: make(map[snowflake.ID]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// replace swaps the membership for ids wholesale.
func (s *roleSet) replace(ids []snowflake.ID) {
	next := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = next
}

// snapshot returns an independent copy of the membership. Mutating the
// returned slice has no effect on the set.
func (s *roleSet) snapshot() []snowflake.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]snowflake.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

func (s *roleSet) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
