package domain

import "strings"

type RoomID string

func (id RoomID) Blank() bool { return strings.TrimSpace(string(id)) == "" }
