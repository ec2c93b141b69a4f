// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/Rayrnond/JDA/rest"
)

type ClientSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&ClientSuite{})

func (s *ClientSuite) TestConfigValidate(c *gc.C) {
	config := rest.ClientConfig{Token: "token", Clock: testclock.NewClock(time.Now())}
	err := config.Validate()
	c.Check(err, gc.ErrorMatches, "empty BaseURL not valid")
	c.Check(err, jc.Satisfies, errors.IsNotValid)

	config.BaseURL = "http://example.com"
	config.Token = ""
	c.Check(config.Validate(), gc.ErrorMatches, "empty Token not valid")

	config.Token = "token"
	config.Clock = nil
	c.Check(config.Validate(), gc.ErrorMatches, "nil Clock not valid")
}

// newServer returns a fake API server routing the emote endpoints.
func (s *ClientSuite) newServer(c *gc.C, handler http.HandlerFunc) *httptest.Server {
	router := mux.NewRouter()
	router.HandleFunc("/guilds/{guild}/emojis/{emote}", handler)
	server := httptest.NewServer(router)
	s.AddCleanup(func(*gc.C) { server.Close() })
	return server
}

func (s *ClientSuite) newClient(c *gc.C, baseURL string, clk *testclock.Clock) *rest.Client {
	client, err := rest.NewClient(rest.ClientConfig{
		BaseURL: baseURL,
		Token:   "sekrit",
		Clock:   clk,
	})
	c.Assert(err, jc.ErrorIsNil)
	return client
}

func (s *ClientSuite) TestDo(c *gc.C) {
	var gotAuth atomic.Value
	server := s.newServer(c, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		c.Check(r.Method, gc.Equals, "DELETE")
		w.WriteHeader(http.StatusNoContent)
	})

	client := s.newClient(c, server.URL, testclock.NewClock(time.Now()))
	resp, err := client.Do(context.Background(), rest.DeleteGuildEmote.Compile("123", "456"), nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(resp.Status, gc.Equals, http.StatusNoContent)
	c.Check(gotAuth.Load(), gc.Equals, "Bot sekrit")
}

func (s *ClientSuite) TestDoReturnsErrorResponses(c *gc.C) {
	server := s.newServer(c, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": 10014, "message": "Unknown Emoji"}`))
	})

	client := s.newClient(c, server.URL, testclock.NewClock(time.Now()))
	resp, err := client.Do(context.Background(), rest.DeleteGuildEmote.Compile("123", "456"), nil)

	// An error response is still a response; classification belongs
	// to the caller.
	c.Assert(err, jc.ErrorIsNil)
	c.Check(resp.Status, gc.Equals, http.StatusNotFound)
	c.Check(resp.ErrorCode(), gc.Equals, rest.ErrCodeUnknownEmote)
}

func (s *ClientSuite) TestDoRetriesRateLimited(c *gc.C) {
	var calls int32
	server := s.newServer(c, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	clk := testclock.NewClock(time.Now())
	client := s.newClient(c, server.URL, clk)

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := client.Do(context.Background(), rest.DeleteGuildEmote.Compile("123", "456"), nil)
		c.Check(err, jc.ErrorIsNil)
		c.Check(resp.Status, gc.Equals, http.StatusNoContent)
	}()

	// The retry loop backs off through the clock after the 429.
	c.Assert(clk.WaitAdvance(time.Second, testing.LongWait, 1), jc.ErrorIsNil)

	select {
	case <-done:
	case <-time.After(testing.LongWait):
		c.Fatalf("Do did not return")
	}
	c.Check(atomic.LoadInt32(&calls), gc.Equals, int32(2))
}

func (s *ClientSuite) TestDoSendsBody(c *gc.C) {
	server := s.newServer(c, func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.Header.Get("Content-Type"), gc.Equals, "application/json")
		w.WriteHeader(http.StatusOK)
	})

	client := s.newClient(c, server.URL, testclock.NewClock(time.Now()))
	body := map[string]string{"name": "blobdance"}
	resp, err := client.Do(context.Background(), rest.ModifyGuildEmote.Compile("123", "456"), body)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(resp.Status, gc.Equals, http.StatusOK)
}
