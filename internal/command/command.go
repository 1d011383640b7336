// Package command registers every cli command.
package command

import (
	_ "github.com/motefs/mote/internal/command/context"
	_ "github.com/motefs/mote/internal/command/delete"
	_ "github.com/motefs/mote/internal/command/diff"
	_ "github.com/motefs/mote/internal/command/gc"
	_ "github.com/motefs/mote/internal/command/help"
	_ "github.com/motefs/mote/internal/command/ignore"
	_ "github.com/motefs/mote/internal/command/init"
	_ "github.com/motefs/mote/internal/command/log"
	_ "github.com/motefs/mote/internal/command/project"
	_ "github.com/motefs/mote/internal/command/restore"
	_ "github.com/motefs/mote/internal/command/show"
	_ "github.com/motefs/mote/internal/command/snapshot"
	_ "github.com/motefs/mote/internal/command/verify"
)
