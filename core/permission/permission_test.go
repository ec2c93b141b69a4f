// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package permission_test

import (
	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/Rayrnond/JDA/core/permission"
)

type PermissionSuite struct{}

var _ = gc.Suite(&PermissionSuite{})

func (s *PermissionSuite) TestHas(c *gc.C) {
	set := permission.Permissions(permission.ManageEmotes | permission.KickMembers)
	c.Check(set.Has(permission.ManageEmotes), jc.IsTrue)
	c.Check(set.Has(permission.KickMembers), jc.IsTrue)
	c.Check(set.Has(permission.BanMembers), jc.IsFalse)
}

func (s *PermissionSuite) TestAdministratorGrantsAll(c *gc.C) {
	set := permission.Permissions(permission.Administrator)
	c.Check(set.Has(permission.ManageEmotes), jc.IsTrue)
	c.Check(set.Has(permission.ManageWebhooks), jc.IsTrue)
}

func (s *PermissionSuite) TestUnion(c *gc.C) {
	set := permission.Permissions(permission.KickMembers).Union(
		permission.Permissions(permission.ManageEmotes))
	c.Check(set.Has(permission.KickMembers), jc.IsTrue)
	c.Check(set.Has(permission.ManageEmotes), jc.IsTrue)
	c.Check(set.Has(permission.BanMembers), jc.IsFalse)
}

func (s *PermissionSuite) TestString(c *gc.C) {
	c.Check(permission.ManageEmotes.String(), gc.Equals, "manage-emotes")
	c.Check(permission.Administrator.String(), gc.Equals, "administrator")
	c.Check(permission.Permission(1<<40).String(), gc.Equals, "permission(0x10000000000)")
}

func (s *PermissionSuite) TestErrorMessage(c *gc.C) {
	err := &permission.Error{
		GuildID: snowflake.ID(81384788765712384),
		Missing: permission.ManageEmotes,
	}
	c.Check(err, gc.ErrorMatches, "missing permission manage-emotes on guild 81384788765712384")
}

func (s *PermissionSuite) TestIsPermissionError(c *gc.C) {
	err := &permission.Error{Missing: permission.ManageEmotes}
	c.Check(permission.IsPermissionError(err), jc.IsTrue)
	c.Check(permission.IsPermissionError(errors.Trace(err)), jc.IsTrue)
	c.Check(permission.IsPermissionError(errors.New("other")), jc.IsFalse)
	c.Check(permission.IsPermissionError(nil), jc.IsFalse)
}
