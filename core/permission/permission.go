// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

// Package permission holds the permission kinds the connected account
// may hold on a guild, and the error reported when an operation needs
// one it does not have.
package permission

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"
)

// Permission is a single permission bit as defined by the platform.
type Permission uint64

const (
	CreateInstantInvite Permission = 1 << 0
	KickMembers         Permission = 1 << 1
	BanMembers          Permission = 1 << 2
	Administrator       Permission = 1 << 3
	ManageChannels      Permission = 1 << 4
	ManageGuild         Permission = 1 << 5
	ManageMessages      Permission = 1 << 13
	ManageRoles         Permission = 1 << 28
	ManageWebhooks      Permission = 1 << 29
	ManageEmotes        Permission = 1 << 30
)

var names = map[Permission]string{
	CreateInstantInvite: "create-instant-invite",
	KickMembers:         "kick-members",
	BanMembers:          "ban-members",
	Administrator:       "administrator",
	ManageChannels:      "manage-channels",
	ManageGuild:         "manage-guild",
	ManageMessages:      "manage-messages",
	ManageRoles:         "manage-roles",
	ManageWebhooks:      "manage-webhooks",
	ManageEmotes:        "manage-emotes",
}

// String is part of the Stringer interface.
func (p Permission) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("permission(%#x)", uint64(p))
}

// Permissions is the effective permission set of an account on a guild,
// as reported by the remote server.
type Permissions uint64

// Has reports whether the set grants p, either directly or through
// the administrator bit.
func (s Permissions) Has(p Permission) bool {
	if s&Permissions(Administrator) != 0 {
		return true
	}
	return s&Permissions(p) == Permissions(p)
}

// Union returns the set granting everything in either s or other.
func (s Permissions) Union(other Permissions) Permissions {
	return s | other
}

// Error reports that the connected account is missing a permission on a
// guild. It is returned by entity operations before any request is made,
// so the caller can distinguish a local capability failure from a remote
// rejection.
type Error struct {
	GuildID snowflake.ID
	Missing Permission
}

// Error is part of the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("missing permission %s on guild %s", e.Missing, e.GuildID)
}

// IsPermissionError reports whether err is, or wraps, a permission
// Error.
func IsPermissionError(err error) bool {
	_, ok := errors.Cause(err).(*Error)
	return ok
}
