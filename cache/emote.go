// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"

	"github.com/Rayrnond/JDA/core/permission"
	"github.com/Rayrnond/JDA/rest"
)

const (
	// ErrDetached is returned by operations that need the owning guild
	// when the emote has none, either because it was constructed from
	// an id alone or because the guild has since been evicted.
	ErrDetached = errors.ConstError("emote is not attached to a known guild")

	// ErrNoUser is returned by User when the creator is unknown.
	ErrNoUser = errors.ConstError("emote has no known creator")
)

// Emote represents a custom emote in a cached guild. It is a mutable
// cache record, not a value type: the controller updates it in place as
// gateway events arrive.
//
// Note that the details accessors are not lock-protected. A reader
// racing an update observes either the old or the new value, never a
// torn one; this last-writer-wins behaviour mirrors the eventual
// consistency of the remote state. The role set is the exception and
// is safe for concurrent mutation and iteration.
type Emote struct {
	id     snowflake.ID
	fake   bool
	guild  *GuildReference // nil iff fake
	roles  *roleSet        // nil iff fake
	caller rest.Caller

	managerOnce sync.Once
	manager     *EmoteManager

	details EmoteChange
}

func newEmote(id snowflake.ID, guild *GuildReference, caller rest.Caller) *Emote {
	return &Emote{
		id:     id,
		guild:  guild,
		roles:  newRoleSet(),
		caller: caller,
	}
}

// NewFakeEmote returns an emote constructed from an id alone, as found
// when only a reference to the emote is observed (a reaction, say)
// without its owning guild. A fake emote cannot report roles, be
// cloned, or be deleted.
func NewFakeEmote(id snowflake.ID, name string, caller rest.Caller) *Emote {
	return &Emote{
		id:      id,
		fake:    true,
		caller:  caller,
		details: EmoteChange{EmoteID: id, Name: name},
	}
}

// ID returns the emote's immutable identifier. Identity in the cache is
// keyed on it alone.
func (e *Emote) ID() snowflake.ID {
	return e.id
}

// Name returns the current name of the emote.
func (e *Emote) Name() string {
	return e.details.Name
}

// IsManaged reports whether the emote's lifecycle belongs to an
// external integration. Managed emotes cannot be deleted through this
// client.
func (e *Emote) IsManaged() bool {
	return e.details.Managed
}

// IsAnimated reports whether the emote is animated.
func (e *Emote) IsAnimated() bool {
	return e.details.Animated
}

// IsFake reports whether the emote was constructed from an id alone,
// with no known guild and reduced capability.
func (e *Emote) IsFake() bool {
	return e.fake
}

// Guild resolves the owning guild through the cache, returning nil when
// the emote is fake or the guild has been evicted. The resolution is
// performed on every call; the result is never retained.
func (e *Emote) Guild() *Guild {
	if e.guild == nil {
		return nil
	}
	return e.guild.Resolve()
}

// CanProvideRoles reports whether Roles can succeed.
func (e *Emote) CanProvideRoles() bool {
	return e.roles != nil
}

// Roles returns an independent snapshot of the role ids whose members
// may use the emote. It fails for fake emotes, whose role set is
// unknown rather than empty.
func (e *Emote) Roles() ([]snowflake.ID, error) {
	if !e.CanProvideRoles() {
		return nil, errors.Trace(ErrDetached)
	}
	return e.roles.snapshot(), nil
}

// HasUser reports whether User can succeed.
func (e *Emote) HasUser() bool {
	return e.details.User != nil
}

// User returns the creator of the emote, when known.
func (e *Emote) User() (User, error) {
	if !e.HasUser() {
		return User{}, errors.Trace(ErrNoUser)
	}
	return *e.details.User, nil
}

// Manager returns the update helper bound to this emote, constructing
// it on first use. Exactly one manager exists per emote; concurrent
// first callers all receive the same instance.
func (e *Emote) Manager() *EmoteManager {
	e.managerOnce.Do(func() {
		e.manager = &EmoteManager{emote: e}
	})
	return e.manager
}

// Delete prepares deletion of the emote from its guild. Local guards
// run first, before any transport use: the emote must resolve a live
// guild, must not be managed, and the connected account must hold
// manage-emotes on the guild. The returned task has not been executed.
//
// On execution, a 2xx response yields a true result. A 404 whose error
// body reports an unknown emote yields a false result rather than a
// failure: the emote is already gone, which is the state the caller
// asked for. Anything else fails with the response attached.
func (e *Emote) Delete() (*rest.Task, error) {
	guild := e.Guild()
	if guild == nil {
		return nil, errors.Trace(ErrDetached)
	}
	if e.IsManaged() {
		return nil, errors.NotSupportedf("deleting managed emote %q", e.Name())
	}
	if !guild.HasPermission(permission.ManageEmotes) {
		return nil, &permission.Error{GuildID: guild.ID(), Missing: permission.ManageEmotes}
	}

	route := rest.DeleteGuildEmote.Compile(guild.ID(), e.id)
	return rest.NewTask(e.caller, route, nil, func(resp *rest.Response) (bool, error) {
		switch {
		case resp.OK():
			return true, nil
		case resp.Status == http.StatusNotFound && resp.ErrorCode() == rest.ErrCodeUnknownEmote:
			// Already absent; the desired end state holds.
			return false, nil
		default:
			return false, resp.AsError()
		}
	}), nil
}

// Clone returns a new emote sharing this one's id and guild reference,
// with the flags and creator copied and an independent snapshot of the
// role set. Fake emotes cannot be cloned; they lack the guild context a
// clone requires.
func (e *Emote) Clone() (*Emote, error) {
	if e.fake {
		return nil, errors.NotSupportedf("cloning a detached emote")
	}
	clone := newEmote(e.id, e.guild, e.caller)
	clone.details = e.details.copy()
	clone.roles.replace(e.roles.snapshot())
	return clone, nil
}

// Equal reports whether both records refer to the same remote emote in
// the same observed state. The name takes part in the comparison, so
// two holders of pre- and post-rename records compare unequal even
// though the ids match; cache identity remains keyed on id alone.
func (e *Emote) Equal(other *Emote) bool {
	if other == nil {
		return false
	}
	return e.id == other.id && e.Name() == other.Name()
}

// String is part of the Stringer interface.
func (e *Emote) String() string {
	return fmt.Sprintf("E:%s(%s)", e.Name(), e.id)
}

// Report returns information about the emote for introspection.
func (e *Emote) Report() map[string]interface{} {
	report := map[string]interface{}{
		"name":     e.Name(),
		"managed":  e.IsManaged(),
		"animated": e.IsAnimated(),
		"fake":     e.IsFake(),
	}
	if e.roles != nil {
		report["role-count"] = e.roles.size()
	}
	return report
}

func (e *Emote) setDetails(details EmoteChange) {
	if e.roles != nil {
		e.roles.replace(details.RoleIDs)
	}
	// The role set above is the authoritative membership store;
	// the copy retained in details is not consulted again.
	details.RoleIDs = nil
	e.details = details.copy()
}
