// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"github.com/bwmarrin/snowflake"
)

// GuildReference is a non-owning relation from an entity to the guild
// that holds it. It stores only the guild id and a lookup into the live
// cache; the resolved *Guild is never retained, so a guild evicted from
// the cache can not leak out through a stale reference. Each call to
// Resolve pays one lookup.
//
// Resolve is safe for concurrent use provided the lookup function is;
// the controller's lookup is.
type GuildReference struct {
	id     snowflake.ID
	lookup func(snowflake.ID) *Guild
}

func newGuildReference(id snowflake.ID, lookup func(snowflake.ID) *Guild) *GuildReference {
	return &GuildReference{id: id, lookup: lookup}
}

// ID returns the referenced guild's id. The id outlives the guild's
// cache residency.
func (r *GuildReference) ID() snowflake.ID {
	return r.id
}

// Resolve returns the guild currently cached under the reference's id,
// or nil if it has been evicted.
func (r *GuildReference) Resolve() *Guild {
	return r.lookup(r.id)
}
