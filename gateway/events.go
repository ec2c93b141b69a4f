// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package gateway

import (
	"encoding/json"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"

	"github.com/Rayrnond/JDA/cache"
	"github.com/Rayrnond/JDA/core/permission"
)

// Opcodes of the gateway protocol, as far as this client speaks it.
const (
	opDispatch     = 0
	opHeartbeat    = 1
	opIdentify     = 2
	opHello        = 10
	opHeartbeatAck = 11
)

// Dispatch event names handled by this client.
const (
	eventGuildCreate  = "GUILD_CREATE"
	eventGuildUpdate  = "GUILD_UPDATE"
	eventGuildDelete  = "GUILD_DELETE"
	eventEmotesUpdate = "GUILD_EMOJIS_UPDATE"
)

// payload is the envelope of every gateway message.
type payload struct {
	Op   int             `json:"op"`
	Type string          `json:"t,omitempty"`
	Seq  int64           `json:"s,omitempty"`
	Data json.RawMessage `json:"d,omitempty"`
}

type helloData struct {
	// HeartbeatInterval is in milliseconds on the wire.
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identifyData struct {
	Token      string         `json:"token"`
	Intents    int            `json:"intents"`
	Properties map[string]any `json:"properties"`
}

type userPayload struct {
	ID   string `json:"id"`
	Name string `json:"username"`
	Bot  bool   `json:"bot,omitempty"`
}

type emotePayload struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Roles    []string     `json:"roles,omitempty"`
	User     *userPayload `json:"user,omitempty"`
	Managed  bool         `json:"managed,omitempty"`
	Animated bool         `json:"animated,omitempty"`
}

type guildPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Permissions is the connected account's effective permission set,
	// serialised as a decimal string.
	Permissions string         `json:"permissions,omitempty"`
	Emotes      []emotePayload `json:"emojis,omitempty"`
	Unavailable bool           `json:"unavailable,omitempty"`
}

type emotesUpdatePayload struct {
	GuildID string         `json:"guild_id"`
	Emotes  []emotePayload `json:"emojis"`
}

// translate maps a dispatch payload onto the cache change events it
// implies, in application order. Unhandled event types translate to
// nothing.
func translate(eventType string, data json.RawMessage) ([]interface{}, error) {
	switch eventType {
	case eventGuildCreate, eventGuildUpdate:
		var guild guildPayload
		if err := json.Unmarshal(data, &guild); err != nil {
			return nil, errors.Annotatef(err, "decoding %s", eventType)
		}
		return translateGuild(guild)
	case eventGuildDelete:
		var guild guildPayload
		if err := json.Unmarshal(data, &guild); err != nil {
			return nil, errors.Annotatef(err, "decoding %s", eventType)
		}
		id, err := snowflake.ParseString(guild.ID)
		if err != nil {
			return nil, errors.Annotatef(err, "guild id %q", guild.ID)
		}
		return []interface{}{cache.RemoveGuild{GuildID: id}}, nil
	case eventEmotesUpdate:
		var update emotesUpdatePayload
		if err := json.Unmarshal(data, &update); err != nil {
			return nil, errors.Annotatef(err, "decoding %s", eventType)
		}
		id, err := snowflake.ParseString(update.GuildID)
		if err != nil {
			return nil, errors.Annotatef(err, "guild id %q", update.GuildID)
		}
		emotes, err := translateEmotes(id, update.Emotes)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return []interface{}{cache.GuildEmotesChange{GuildID: id, Emotes: emotes}}, nil
	}
	return nil, nil
}

func translateGuild(guild guildPayload) ([]interface{}, error) {
	id, err := snowflake.ParseString(guild.ID)
	if err != nil {
		return nil, errors.Annotatef(err, "guild id %q", guild.ID)
	}

	var perms permission.Permissions
	if guild.Permissions != "" {
		bits, err := strconv.ParseUint(guild.Permissions, 10, 64)
		if err != nil {
			return nil, errors.Annotatef(err, "guild %s permissions %q", id, guild.Permissions)
		}
		perms = permission.Permissions(bits)
	}

	changes := []interface{}{cache.GuildChange{
		GuildID:         id,
		Name:            guild.Name,
		SelfPermissions: perms,
	}}
	if guild.Emotes != nil {
		emotes, err := translateEmotes(id, guild.Emotes)
		if err != nil {
			return nil, errors.Trace(err)
		}
		changes = append(changes, cache.GuildEmotesChange{GuildID: id, Emotes: emotes})
	}
	return changes, nil
}

func translateEmotes(guildID snowflake.ID, payloads []emotePayload) ([]cache.EmoteChange, error) {
	emotes := make([]cache.EmoteChange, 0, len(payloads))
	for _, p := range payloads {
		id, err := snowflake.ParseString(p.ID)
		if err != nil {
			return nil, errors.Annotatef(err, "emote id %q on guild %s", p.ID, guildID)
		}
		change := cache.EmoteChange{
			GuildID:  guildID,
			EmoteID:  id,
			Name:     p.Name,
			Managed:  p.Managed,
			Animated: p.Animated,
		}
		if p.Roles != nil {
			change.RoleIDs = make([]snowflake.ID, len(p.Roles))
			for i, role := range p.Roles {
				roleID, err := snowflake.ParseString(role)
				if err != nil {
					return nil, errors.Annotatef(err, "role id %q on emote %s", role, id)
				}
				change.RoleIDs[i] = roleID
			}
		}
		if p.User != nil {
			userID, err := snowflake.ParseString(p.User.ID)
			if err != nil {
				return nil, errors.Annotatef(err, "user id %q on emote %s", p.User.ID, id)
			}
			change.User = &cache.User{
				ID:   userID,
				Name: p.User.Name,
				Bot:  p.User.Bot,
			}
		}
		emotes = append(emotes, change)
	}
	return emotes, nil
}
