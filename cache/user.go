// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// User identifies an account on the platform. It is a value type;
// entities hand out copies rather than sharing storage.
type User struct {
	ID   snowflake.ID
	Name string
	Bot  bool
}

// String is part of the Stringer interface.
func (u User) String() string {
	return fmt.Sprintf("U:%s(%s)", u.Name, u.ID)
}
