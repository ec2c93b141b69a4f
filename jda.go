// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

// Package jda is a client library for a chat platform's bot API. It
// keeps a live cache of the guilds visible to the connected account and
// their custom emotes, fed by the platform's websocket event stream,
// and acts on the platform through a rate-limited REST transport.
package jda

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/worker/v4"

	"github.com/Rayrnond/JDA/cache"
	"github.com/Rayrnond/JDA/gateway"
	"github.com/Rayrnond/JDA/rest"
)

const (
	defaultAPIURL     = "https://discord.com/api/v10"
	defaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

	// changeBuffer decouples event arrival from cache processing.
	changeBuffer = 64
)

// Config holds the configuration for a Client.
type Config struct {
	// Token authenticates the account against both the REST API and
	// the event stream.
	Token string

	// APIURL and GatewayURL override the platform endpoints; both
	// default to the public ones when empty.
	APIURL     string
	GatewayURL string

	// HTTPClient, when set, replaces http.DefaultClient for REST
	// requests.
	HTTPClient *http.Client

	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.Token == "" {
		return errors.NotValidf("empty Token")
	}
	return nil
}

// Client owns the REST transport, the event-stream connection and the
// entity cache, wired together.
type Client struct {
	controller *cache.Controller
	gateway    *gateway.Gateway
	rest       *rest.Client
}

// New returns a running Client: the gateway connects and the cache
// starts consuming its events immediately.
func New(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Clock == nil {
		config.Clock = clock.WallClock
	}
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	if config.GatewayURL == "" {
		config.GatewayURL = defaultGatewayURL
	}

	restClient, err := rest.NewClient(rest.ClientConfig{
		BaseURL:    config.APIURL,
		Token:      config.Token,
		HTTPClient: config.HTTPClient,
		Clock:      config.Clock,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	changes := make(chan interface{}, changeBuffer)
	controller, err := cache.NewController(cache.ControllerConfig{
		Changes: changes,
		Caller:  restClient,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	gw, err := gateway.New(gateway.Config{
		URL:     config.GatewayURL,
		Token:   config.Token,
		Changes: changes,
		Clock:   config.Clock,
	})
	if err != nil {
		_ = worker.Stop(controller)
		return nil, errors.Trace(err)
	}

	return &Client{
		controller: controller,
		gateway:    gw,
		rest:       restClient,
	}, nil
}

// Cache returns the entity cache.
func (c *Client) Cache() *cache.Controller {
	return c.controller
}

// Guild returns the cached guild with the given id.
func (c *Client) Guild(id snowflake.ID) (*cache.Guild, error) {
	guild, err := c.controller.Guild(id)
	return guild, errors.Trace(err)
}

// Emote returns the cached emote with the given id on the given guild.
func (c *Client) Emote(guildID, emoteID snowflake.ID) (*cache.Emote, error) {
	emote, err := c.controller.Emote(guildID, emoteID)
	return emote, errors.Trace(err)
}

// Close tears down the gateway connection and the cache, waiting for
// both to finish.
func (c *Client) Close() error {
	gatewayErr := worker.Stop(c.gateway)
	controllerErr := worker.Stop(c.controller)
	if gatewayErr != nil {
		return errors.Annotate(gatewayErr, "stopping gateway")
	}
	return errors.Annotate(controllerErr, "stopping cache")
}
