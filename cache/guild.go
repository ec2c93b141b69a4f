// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/Rayrnond/JDA/core/permission"
)

// Guild represents a guild the connected account is a member of. It is
// the owning container for the guild's custom emotes.
//
// As with Emote, the details accessors are not lock-protected; see the
// concurrency note on Emote. The emote collection has its own lock.
type Guild struct {
	controller *Controller
	id         snowflake.ID
	details    GuildChange

	// stale is used by mark/sweep eviction and is guarded by the
	// controller's mutex.
	stale bool

	mu     sync.Mutex
	emotes map[snowflake.ID]*Emote
}

func newGuild(controller *Controller, id snowflake.ID) *Guild {
	return &Guild{
		controller: controller,
		id:         id,
		emotes:     make(map[snowflake.ID]*Emote),
	}
}

// ID returns the guild's immutable identifier.
func (g *Guild) ID() snowflake.ID {
	return g.id
}

// Name returns the current name of the guild.
func (g *Guild) Name() string {
	return g.details.Name
}

// HasPermission reports whether the connected account holds p on this
// guild.
func (g *Guild) HasPermission(p permission.Permission) bool {
	return g.details.SelfPermissions.Has(p)
}

// Emote returns the cached emote with the given id.
func (g *Guild) Emote(id snowflake.ID) (*Emote, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	emote, ok := g.emotes[id]
	if !ok {
		return nil, errors.NotFoundf("emote %s on guild %s", id, g.id)
	}
	return emote, nil
}

// Emotes returns the guild's cached emotes.
func (g *Guild) Emotes() []*Emote {
	g.mu.Lock()
	defer g.mu.Unlock()
	emotes := make([]*Emote, 0, len(g.emotes))
	for _, emote := range g.emotes {
		emotes = append(emotes, emote)
	}
	return emotes
}

// EmotesByName returns the cached emotes currently carrying name.
// Emote names are not unique.
func (g *Guild) EmotesByName(name string) []*Emote {
	g.mu.Lock()
	defer g.mu.Unlock()
	var matches []*Emote
	for _, emote := range g.emotes {
		if emote.Name() == name {
			matches = append(matches, emote)
		}
	}
	return matches
}

// Report returns information about the guild for introspection.
func (g *Guild) Report() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := set.NewStrings()
	for _, emote := range g.emotes {
		names.Add(emote.Name())
	}
	return map[string]interface{}{
		"name":        g.details.Name,
		"emote-count": len(g.emotes),
		"emote-names": names.SortedValues(),
	}
}

// String is part of the Stringer interface.
func (g *Guild) String() string {
	return fmt.Sprintf("G:%s(%s)", g.Name(), g.id)
}

func (g *Guild) setDetails(details GuildChange) {
	g.details = details.copy()
}

// updateEmote applies a single emote change, creating the record on
// first receipt, and returns it.
func (g *Guild) updateEmote(change EmoteChange) *Emote {
	g.mu.Lock()
	defer g.mu.Unlock()
	emote, ok := g.emotes[change.EmoteID]
	if !ok {
		emote = newEmote(
			change.EmoteID,
			newGuildReference(g.id, g.controller.guildLookup),
			g.controller.config.Caller,
		)
		g.emotes[change.EmoteID] = emote
	}
	emote.setDetails(change)
	return emote
}

func (g *Guild) removeEmote(id snowflake.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.emotes, id)
}

// reconcileEmotes replaces the guild's emote set with the supplied
// list, returning the ids that were dropped.
func (g *Guild) reconcileEmotes(changes []EmoteChange) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(changes))
	for _, change := range changes {
		g.updateEmote(change)
		seen[change.EmoteID] = struct{}{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	var removed []snowflake.ID
	for id := range g.emotes {
		if _, ok := seen[id]; !ok {
			delete(g.emotes, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (g *Guild) emoteCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.emotes)
}
