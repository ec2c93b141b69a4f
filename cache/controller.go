// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

// Package cache holds the client's live representation of the remote
// state: guilds and their custom emotes, updated in place as gateway
// events arrive and evictable when the remote side reports them gone.
package cache

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/pubsub/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/tomb.v2"

	"github.com/Rayrnond/JDA/rest"
)

var logger = loggo.GetLogger("jda.cache")

// topics published on the controller's hub.
const (
	guildUpdatedTopic = "guild-updated"
)

func emoteChangeTopic(id snowflake.ID) string {
	return "emote-change:" + id.String()
}

// ControllerConfig is the configuration required for a new Controller.
type ControllerConfig struct {
	// Changes supplies the change events the cache consumes. The
	// gateway writes to the other end.
	Changes <-chan interface{}

	// Caller executes the remote operations built by cached entities.
	Caller rest.Caller

	// Notify, when set, is called with every processed change. It is
	// only used for testing.
	Notify func(interface{})
}

// Validate returns an error if the config cannot be used.
func (c ControllerConfig) Validate() error {
	if c.Changes == nil {
		return errors.NotValidf("nil Changes")
	}
	if c.Caller == nil {
		return errors.NotValidf("nil Caller")
	}
	return nil
}

// Controller is the cache for the connected account's view of the
// platform. It consumes change events serially from the config's
// channel; all entity mutation happens on the controller's own
// goroutine, while reads may come from any goroutine.
type Controller struct {
	config  ControllerConfig
	tomb    tomb.Tomb
	hub     *pubsub.SimpleHub
	metrics *ControllerGauges

	mu     sync.Mutex
	guilds map[snowflake.ID]*Guild
}

// NewController creates a new cached view of the remote state, and
// starts the processing of the changes channel.
func NewController(config ControllerConfig) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	c := &Controller{
		config: config,
		hub: pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
			Logger: loggo.GetLogger("jda.cache.hub"),
		}),
		metrics: createControllerGauges(),
		guilds:  make(map[snowflake.ID]*Guild),
	}
	c.tomb.Go(c.loop)
	return c, nil
}

func (c *Controller) loop() error {
	for {
		select {
		case <-c.tomb.Dying():
			return tomb.ErrDying
		case change, ok := <-c.config.Changes:
			if !ok {
				return errors.New("changes channel closed")
			}
			c.metrics.ChangesProcessed.Inc()
			switch ch := change.(type) {
			case GuildChange:
				c.updateGuild(ch)
			case RemoveGuild:
				c.removeGuild(ch)
			case EmoteChange:
				c.updateEmote(ch)
			case RemoveEmote:
				c.removeEmote(ch)
			case GuildEmotesChange:
				c.updateGuildEmotes(ch)
			default:
				logger.Warningf("unhandled change type %T", change)
			}
			c.updateGauges()
			if c.config.Notify != nil {
				c.config.Notify(change)
			}
		}
	}
}

// Kill is part of the worker.Worker interface.
func (c *Controller) Kill() {
	c.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (c *Controller) Wait() error {
	return c.tomb.Wait()
}

// Metrics returns a collector over the cache for registration with a
// Prometheus registry.
func (c *Controller) Metrics() prometheus.Collector {
	return c.metrics
}

// Guild returns the cached guild with the given id.
func (c *Controller) Guild(id snowflake.ID) (*Guild, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	guild, ok := c.guilds[id]
	if !ok {
		return nil, errors.NotFoundf("guild %s", id)
	}
	return guild, nil
}

// Emote returns the cached emote with the given id on the given guild.
func (c *Controller) Emote(guildID, emoteID snowflake.ID) (*Emote, error) {
	guild, err := c.Guild(guildID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	emote, err := guild.Emote(emoteID)
	return emote, errors.Trace(err)
}

// FakeEmote returns a detached emote record for an id observed without
// its owning guild.
func (c *Controller) FakeEmote(id snowflake.ID, name string) *Emote {
	return NewFakeEmote(id, name, c.config.Caller)
}

// GuildIDs returns the ids of all cached guilds, sorted.
func (c *Controller) GuildIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := set.NewStrings()
	for id := range c.guilds {
		ids.Add(id.String())
	}
	return ids.SortedValues()
}

// WatchEmote returns a watcher notified with the emote record each time
// a change for it is processed.
func (c *Controller) WatchEmote(id snowflake.ID) *EmoteWatcher {
	return newEmoteWatcher(id, c.hub)
}

// Report returns information about the cache for introspection.
func (c *Controller) Report() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	report := make(map[string]interface{}, len(c.guilds))
	for id, guild := range c.guilds {
		report[id.String()] = guild.Report()
	}
	return report
}

// Mark flags all cached guilds as stale. A subsequent change for a
// guild clears the flag; Sweep evicts whatever is still flagged.
// Together they resynchronise the cache after a gateway reconnect,
// when removal events may have been missed.
func (c *Controller) Mark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, guild := range c.guilds {
		guild.stale = true
	}
}

// Sweep evicts every guild still flagged by the last Mark.
func (c *Controller) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, guild := range c.guilds {
		if guild.stale {
			logger.Debugf("sweeping guild %s from the cache", id)
			delete(c.guilds, id)
			c.metrics.Evictions.Inc()
		}
	}
}

// guildLookup is the lookup function handed to guild references. A nil
// return means the guild is not (or no longer) cached. It is safe for
// concurrent use.
func (c *Controller) guildLookup(id snowflake.ID) *Guild {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guilds[id]
}

// ensureGuild returns the cached guild, creating a placeholder record
// if this is the first change observed for it.
func (c *Controller) ensureGuild(id snowflake.ID) *Guild {
	c.mu.Lock()
	defer c.mu.Unlock()
	guild, ok := c.guilds[id]
	if !ok {
		guild = newGuild(c, id)
		c.guilds[id] = guild
	}
	guild.stale = false
	return guild
}

func (c *Controller) updateGuild(change GuildChange) {
	guild := c.ensureGuild(change.GuildID)
	guild.setDetails(change)
	c.hub.Publish(guildUpdatedTopic, guild)
}

func (c *Controller) removeGuild(change RemoveGuild) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.guilds[change.GuildID]; ok {
		delete(c.guilds, change.GuildID)
		c.metrics.Evictions.Inc()
	}
}

func (c *Controller) updateEmote(change EmoteChange) {
	guild := c.ensureGuild(change.GuildID)
	emote := guild.updateEmote(change)
	c.hub.Publish(emoteChangeTopic(change.EmoteID), emote)
}

func (c *Controller) removeEmote(change RemoveEmote) {
	guild := c.ensureGuild(change.GuildID)
	guild.removeEmote(change.EmoteID)
}

func (c *Controller) updateGuildEmotes(change GuildEmotesChange) {
	guild := c.ensureGuild(change.GuildID)
	removed := guild.reconcileEmotes(change.Emotes)
	for _, e := range change.Emotes {
		if emote, err := guild.Emote(e.EmoteID); err == nil {
			c.hub.Publish(emoteChangeTopic(e.EmoteID), emote)
		}
	}
	if len(removed) > 0 {
		logger.Tracef("reconcile dropped %d emotes from guild %s", len(removed), change.GuildID)
	}
}

func (c *Controller) updateGauges() {
	c.mu.Lock()
	defer c.mu.Unlock()
	emotes := 0
	for _, guild := range c.guilds {
		emotes += guild.emoteCount()
	}
	c.metrics.Guilds.Set(float64(len(c.guilds)))
	c.metrics.Emotes.Set(float64(emotes))
}
