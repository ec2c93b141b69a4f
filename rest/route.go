// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest

import (
	"fmt"
	"net/http"
	"strings"
)

// Route is an uncompiled API route: an HTTP method plus a path template
// whose placeholders are filled in per call by Compile.
type Route struct {
	Method string
	Path   string
}

// Compile substitutes args into the route's path template, producing a
// route ready to hand to a Caller. The number of args must match the
// number of placeholders in the template.
func (r Route) Compile(args ...interface{}) CompiledRoute {
	return CompiledRoute{
		Method: r.Method,
		Path:   fmt.Sprintf(r.Path, args...),
		base:   r.Path,
	}
}

// CompiledRoute is a Route with all path placeholders resolved.
type CompiledRoute struct {
	Method string
	Path   string

	// base retains the uncompiled template; rate limiting is performed
	// per template, not per resolved path.
	base string
}

// String is part of the Stringer interface.
func (r CompiledRoute) String() string {
	return r.Method + " /" + r.Path
}

// Bucket returns the rate-limit bucket key for the route.
func (r CompiledRoute) Bucket() string {
	return r.Method + ":" + r.base
}

func get(path string) Route   { return Route{Method: http.MethodGet, Path: path} }
func post(path string) Route  { return Route{Method: http.MethodPost, Path: path} }
func patch(path string) Route { return Route{Method: http.MethodPatch, Path: path} }
func del(path string) Route   { return Route{Method: http.MethodDelete, Path: path} }

// Emote routes.
var (
	GetGuildEmotes   = get("guilds/%s/emojis")
	GetGuildEmote    = get("guilds/%s/emojis/%s")
	CreateGuildEmote = post("guilds/%s/emojis")
	ModifyGuildEmote = patch("guilds/%s/emojis/%s")
	DeleteGuildEmote = del("guilds/%s/emojis/%s")
)

// Guild routes.
var (
	GetGuild = get("guilds/%s")
)

// Gateway routes.
var (
	GetGatewayURL = get("gateway")
)

// joinURL appends a compiled path to the API base URL.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}
