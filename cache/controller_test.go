// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache_test

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4/workertest"
	"github.com/prometheus/client_golang/prometheus"
	gc "gopkg.in/check.v1"

	"github.com/Rayrnond/JDA/cache"
)

type ControllerSuite struct {
	entitySuite
}

var _ = gc.Suite(&ControllerSuite{})

func (s *ControllerSuite) TestConfigMissingChanges(c *gc.C) {
	config := cache.ControllerConfig{Caller: s.caller}
	err := config.Validate()
	c.Check(err, gc.ErrorMatches, "nil Changes not valid")
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *ControllerSuite) TestConfigMissingCaller(c *gc.C) {
	config := cache.ControllerConfig{Changes: s.changes}
	err := config.Validate()
	c.Check(err, gc.ErrorMatches, "nil Caller not valid")
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *ControllerSuite) TestController(c *gc.C) {
	controller, _ := s.newController(c)

	c.Check(controller.GuildIDs(), gc.HasLen, 0)
	c.Check(controller.Report(), gc.HasLen, 0)
}

func (s *ControllerSuite) TestAddGuild(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)

	c.Check(controller.GuildIDs(), jc.SameContents, []string{guildChange.GuildID.String()})
	c.Check(controller.Report(), gc.DeepEquals, map[string]interface{}{
		"81384788765712384": map[string]interface{}{
			"name":        "general-testing",
			"emote-count": 0,
			"emote-names": []string{},
		}})

	guild, err := controller.Guild(guildChange.GuildID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(guild.Name(), gc.Equals, "general-testing")
}

func (s *ControllerSuite) TestGuildNotFound(c *gc.C) {
	controller, _ := s.newController(c)
	_, err := controller.Guild(guildChange.GuildID)
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}

func (s *ControllerSuite) TestRemoveGuild(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)
	s.processChange(c, cache.RemoveGuild{GuildID: guildChange.GuildID}, events)

	c.Check(controller.GuildIDs(), gc.HasLen, 0)
	_, err := controller.Guild(guildChange.GuildID)
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}

func (s *ControllerSuite) TestEmoteDeltaCreatesGuild(c *gc.C) {
	// An emote change arriving before its guild's creates a
	// placeholder guild record.
	controller, events := s.newController(c)
	s.processChange(c, emoteChange, events)

	guild, err := controller.Guild(guildChange.GuildID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(guild.Name(), gc.Equals, "")

	emote, err := guild.Emote(emoteChange.EmoteID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(emote.Name(), gc.Equals, "blobwave")
}

func (s *ControllerSuite) TestRemoveEmote(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)
	s.processChange(c, emoteChange, events)
	s.processChange(c, cache.RemoveEmote{
		GuildID: guildChange.GuildID,
		EmoteID: emoteChange.EmoteID,
	}, events)

	guild, err := controller.Guild(guildChange.GuildID)
	c.Assert(err, jc.ErrorIsNil)
	_, err = guild.Emote(emoteChange.EmoteID)
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}

func (s *ControllerSuite) TestEmoteReconcile(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)
	s.processChange(c, emoteChange, events)

	// A full-list update that omits the cached emote drops it and
	// picks up the newcomer.
	next := emoteChange
	next.EmoteID = snowflake.ID(304077928184941571)
	next.Name = "blobdance"
	s.processChange(c, cache.GuildEmotesChange{
		GuildID: guildChange.GuildID,
		Emotes:  []cache.EmoteChange{next},
	}, events)

	guild, err := controller.Guild(guildChange.GuildID)
	c.Assert(err, jc.ErrorIsNil)
	_, err = guild.Emote(emoteChange.EmoteID)
	c.Check(err, jc.Satisfies, errors.IsNotFound)

	emote, err := guild.Emote(next.EmoteID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(emote.Name(), gc.Equals, "blobdance")
}

func (s *ControllerSuite) TestEmotesByName(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)
	s.processChange(c, emoteChange, events)

	guild, err := controller.Guild(guildChange.GuildID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(guild.EmotesByName("blobwave"), gc.HasLen, 1)
	c.Check(guild.EmotesByName("missing"), gc.HasLen, 0)
}

func (s *ControllerSuite) TestMarkAndSweep(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)

	other := guildChange
	other.GuildID = snowflake.ID(81384788765712385)
	other.Name = "other"
	s.processChange(c, other, events)

	controller.Mark()
	// Only one of the two guilds is seen again before the sweep.
	s.processChange(c, guildChange, events)
	controller.Sweep()

	c.Check(controller.GuildIDs(), jc.SameContents, []string{guildChange.GuildID.String()})
}

func (s *ControllerSuite) TestWatchEmote(c *gc.C) {
	controller, events := s.newController(c)
	s.processChange(c, guildChange, events)
	s.processChange(c, emoteChange, events)

	w := controller.WatchEmote(emoteChange.EmoteID)
	defer workertest.CleanKill(c, w)

	renamed := emoteChange
	renamed.Name = "blobwave2"
	s.processChange(c, renamed, events)

	select {
	case emote := <-w.Changes():
		c.Assert(emote, gc.NotNil)
		c.Check(emote.Name(), gc.Equals, "blobwave2")
	case <-time.After(testing.LongWait):
		c.Fatalf("watcher did not report the change")
	}
}

func (s *ControllerSuite) TestMetricsRegister(c *gc.C) {
	controller, _ := s.newController(c)
	registry := prometheus.NewPedanticRegistry()
	c.Assert(registry.Register(controller.Metrics()), jc.ErrorIsNil)
}
