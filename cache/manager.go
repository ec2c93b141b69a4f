// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"

	"github.com/Rayrnond/JDA/core/permission"
	"github.com/Rayrnond/JDA/rest"
)

// EmoteManager builds update operations for a single emote. It is
// created lazily by Emote.Manager and bound 1:1 to its emote for the
// emote's lifetime.
type EmoteManager struct {
	emote *Emote
}

// Emote returns the emote the manager operates on.
func (m *EmoteManager) Emote() *Emote {
	return m.emote
}

// emoteUpdate is the modify-emote request payload. Absent fields are
// left unchanged by the server.
type emoteUpdate struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// SetName prepares a rename of the emote. The same local guards as
// deletion apply; the returned task performs no network activity until
// executed.
func (m *EmoteManager) SetName(name string) (*rest.Task, error) {
	if name == "" {
		return nil, errors.NotValidf("empty emote name")
	}
	return m.update(emoteUpdate{Name: name})
}

// SetRoles prepares a replacement of the role ids whose members may use
// the emote. An empty list makes the emote usable by everyone.
func (m *EmoteManager) SetRoles(roleIDs []snowflake.ID) (*rest.Task, error) {
	roles := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		roles[i] = id.String()
	}
	return m.update(emoteUpdate{Roles: roles})
}

func (m *EmoteManager) update(body emoteUpdate) (*rest.Task, error) {
	e := m.emote
	guild := e.Guild()
	if guild == nil {
		return nil, errors.Trace(ErrDetached)
	}
	if e.IsManaged() {
		return nil, errors.NotSupportedf("modifying managed emote %q", e.Name())
	}
	if !guild.HasPermission(permission.ManageEmotes) {
		return nil, &permission.Error{GuildID: guild.ID(), Missing: permission.ManageEmotes}
	}

	route := rest.ModifyGuildEmote.Compile(guild.ID(), e.ID())
	return rest.NewTask(e.caller, route, body, nil), nil
}
