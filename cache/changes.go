// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"github.com/bwmarrin/snowflake"

	"github.com/Rayrnond/JDA/core/permission"
)

// GuildChange represents either a newly observed guild, or a change to
// an existing guild.
type GuildChange struct {
	GuildID snowflake.ID
	Name    string

	// SelfPermissions is the effective permission set of the connected
	// account on the guild.
	SelfPermissions permission.Permissions
}

// copy returns a deep copy of the GuildChange.
func (g GuildChange) copy() GuildChange {
	return g
}

// RemoveGuild represents the situation when a guild becomes
// unavailable and is evicted from the cache.
type RemoveGuild struct {
	GuildID snowflake.ID
}

// EmoteChange represents either a new emote, or a change to an
// existing emote on a guild.
type EmoteChange struct {
	GuildID  snowflake.ID
	EmoteID  snowflake.ID
	Name     string
	Managed  bool
	Animated bool
	RoleIDs  []snowflake.ID

	// User identifies the creator, when the server reports one.
	User *User
}

// copy returns a deep copy of the EmoteChange.
func (e EmoteChange) copy() EmoteChange {
	if e.RoleIDs != nil {
		e.RoleIDs = append([]snowflake.ID(nil), e.RoleIDs...)
	}
	if e.User != nil {
		user := *e.User
		e.User = &user
	}
	return e
}

// RemoveEmote represents the situation when an emote is removed from
// its guild.
type RemoveEmote struct {
	GuildID snowflake.ID
	EmoteID snowflake.ID
}

// GuildEmotesChange carries the full emote list of a guild as reported
// by a single update event. Processing reconciles the cached set
// against it: emotes absent from the list are removed.
type GuildEmotesChange struct {
	GuildID snowflake.ID
	Emotes  []EmoteChange
}

// copy returns a deep copy of the GuildEmotesChange.
func (g GuildEmotesChange) copy() GuildEmotesChange {
	if g.Emotes != nil {
		emotes := make([]EmoteChange, len(g.Emotes))
		for i, e := range g.Emotes {
			emotes[i] = e.copy()
		}
		g.Emotes = emotes
	}
	return g
}
