// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

// Package gateway maintains the websocket connection to the platform's
// event stream and translates the events it carries into cache change
// events.
package gateway

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/retry"
	"gopkg.in/tomb.v2"
)

var logger = loggo.GetLogger("jda.gateway")

const (
	dialRetryDelay    = time.Second
	dialRetryMaxDelay = time.Minute
	dialRetryAttempts = 10
)

// Config is the configuration required for a new Gateway.
type Config struct {
	// URL is the websocket endpoint of the event stream.
	URL string

	// Token authenticates the identify handshake.
	Token string

	// Changes receives the translated change events. The cache
	// controller consumes the other end.
	Changes chan<- interface{}

	// Clock paces heartbeats and reconnect backoff.
	Clock clock.Clock

	// Dialer established the websocket connection. Defaults to
	// websocket.DefaultDialer when nil.
	Dialer *websocket.Dialer
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.NotValidf("empty URL")
	}
	if c.Token == "" {
		return errors.NotValidf("empty Token")
	}
	if c.Changes == nil {
		return errors.NotValidf("nil Changes")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Gateway is a worker holding the event-stream connection open,
// reconnecting with backoff when it drops.
type Gateway struct {
	config Config
	tomb   tomb.Tomb
}

// New returns a Gateway connecting to the configured event stream.
func New(config Config) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Dialer == nil {
		config.Dialer = websocket.DefaultDialer
	}
	g := &Gateway{config: config}
	g.tomb.Go(g.loop)
	return g, nil
}

// Kill is part of the worker.Worker interface.
func (g *Gateway) Kill() {
	g.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (g *Gateway) Wait() error {
	return g.tomb.Wait()
}

func (g *Gateway) loop() error {
	for {
		conn, interval, err := g.connect()
		if err != nil {
			return errors.Annotate(err, "connecting to gateway")
		}
		err = g.serve(conn, interval)
		_ = conn.Close()
		select {
		case <-g.tomb.Dying():
			return tomb.ErrDying
		default:
		}
		logger.Warningf("gateway connection lost, reconnecting: %v", err)
	}
}

// connect dials the event stream with backoff and completes the
// hello/identify handshake, returning the live connection and the
// heartbeat interval the server asked for.
func (g *Gateway) connect() (*websocket.Conn, time.Duration, error) {
	var conn *websocket.Conn
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			c, _, err := g.config.Dialer.Dial(g.config.URL, nil)
			if err != nil {
				return errors.Trace(err)
			}
			conn = c
			return nil
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("gateway dial attempt %d: %v", attempt, err)
		},
		Attempts:    dialRetryAttempts,
		Delay:       dialRetryDelay,
		MaxDelay:    dialRetryMaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       g.config.Clock,
		Stop:        g.tomb.Dying(),
	})
	if err != nil {
		return nil, 0, errors.Trace(err)
	}

	interval, err := g.handshake(conn)
	if err != nil {
		_ = conn.Close()
		return nil, 0, errors.Trace(err)
	}
	return conn, interval, nil
}

func (g *Gateway) handshake(conn *websocket.Conn) (time.Duration, error) {
	var hello payload
	if err := conn.ReadJSON(&hello); err != nil {
		return 0, errors.Annotate(err, "reading hello")
	}
	if hello.Op != opHello {
		return 0, errors.Errorf("expected hello, got op %d", hello.Op)
	}
	var data helloData
	if err := json.Unmarshal(hello.Data, &data); err != nil {
		return 0, errors.Annotate(err, "decoding hello")
	}

	identify, err := json.Marshal(identifyData{
		Token:   g.config.Token,
		Intents: intentGuilds | intentGuildEmotes,
		Properties: map[string]any{
			"os":      "linux",
			"browser": "jda",
			"device":  "jda",
		},
	})
	if err != nil {
		return 0, errors.Trace(err)
	}
	if err := conn.WriteJSON(payload{Op: opIdentify, Data: identify}); err != nil {
		return 0, errors.Annotate(err, "sending identify")
	}
	return time.Duration(data.HeartbeatInterval) * time.Millisecond, nil
}

// Intent bits requested at identify time; only guild metadata and
// emote events are of interest to this cache.
const (
	intentGuilds      = 1 << 0
	intentGuildEmotes = 1 << 3
)

func (g *Gateway) serve(conn *websocket.Conn, heartbeatInterval time.Duration) error {
	type read struct {
		payload payload
		err     error
	}
	// The reader goroutine exits when the connection is closed, either
	// by the server or by our caller after serve returns.
	reads := make(chan read)
	go func() {
		for {
			var p payload
			err := conn.ReadJSON(&p)
			select {
			case reads <- read{payload: p, err: err}:
			case <-g.tomb.Dying():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var lastSeq int64
	heartbeat := g.config.Clock.After(heartbeatInterval)
	for {
		select {
		case <-g.tomb.Dying():
			return tomb.ErrDying
		case <-heartbeat:
			if err := g.sendHeartbeat(conn, lastSeq); err != nil {
				return errors.Trace(err)
			}
			heartbeat = g.config.Clock.After(heartbeatInterval)
		case r := <-reads:
			if r.err != nil {
				return errors.Annotate(r.err, "reading event")
			}
			if r.payload.Seq != 0 {
				lastSeq = r.payload.Seq
			}
			switch r.payload.Op {
			case opDispatch:
				if err := g.dispatch(r.payload); err != nil {
					// A payload this client cannot decode is dropped,
					// not fatal; the stream carries far more event
					// types than the cache consumes.
					logger.Warningf("dropping %s event: %v", r.payload.Type, err)
				}
			case opHeartbeat:
				if err := g.sendHeartbeat(conn, lastSeq); err != nil {
					return errors.Trace(err)
				}
			case opHeartbeatAck:
				// Nothing to do.
			default:
				logger.Tracef("ignoring op %d", r.payload.Op)
			}
		}
	}
}

func (g *Gateway) sendHeartbeat(conn *websocket.Conn, lastSeq int64) error {
	seq, err := json.Marshal(lastSeq)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotate(
		conn.WriteJSON(payload{Op: opHeartbeat, Data: seq}),
		"sending heartbeat",
	)
}

func (g *Gateway) dispatch(p payload) error {
	changes, err := translate(p.Type, p.Data)
	if err != nil {
		return errors.Trace(err)
	}
	for _, change := range changes {
		select {
		case g.config.Changes <- change:
		case <-g.tomb.Dying():
			return tomb.ErrDying
		}
	}
	return nil
}
