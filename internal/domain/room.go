// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxRoomIDLen = 64

var ErrWrongPassword = errors.New("wrong password")

// RoomID is the opaque room key chosen by clients. The password set by a
// room's first joiner and the membership set live in the registry and share
// a lifetime: both exist exactly while the room has members.
type RoomID string
