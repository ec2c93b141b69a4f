// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest_test

import (
	gc "gopkg.in/check.v1"

	"github.com/Rayrnond/JDA/rest"
)

type RouteSuite struct{}

var _ = gc.Suite(&RouteSuite{})

func (s *RouteSuite) TestCompile(c *gc.C) {
	route := rest.DeleteGuildEmote.Compile("123", "456")
	c.Check(route.Method, gc.Equals, "DELETE")
	c.Check(route.Path, gc.Equals, "guilds/123/emojis/456")
	c.Check(route.String(), gc.Equals, "DELETE /guilds/123/emojis/456")
}

func (s *RouteSuite) TestBucketPerTemplate(c *gc.C) {
	one := rest.DeleteGuildEmote.Compile("123", "456")
	two := rest.DeleteGuildEmote.Compile("789", "012")
	c.Check(one.Bucket(), gc.Equals, two.Bucket())

	other := rest.ModifyGuildEmote.Compile("123", "456")
	c.Check(one.Bucket(), gc.Not(gc.Equals), other.Bucket())
}
