// Package middleware provides command wrappers applied at registration.
package middleware

import (
	"errors"
	"fmt"

	"github.com/motefs/mote/internal/cli"
	"github.com/motefs/mote/internal/storage/location"
)

// WithStorageCheck is a middleware that fails the command before it runs
// when no storage root exists for the current project.
func WithStorageCheck() cli.Middleware {
	return func(cmd cli.Command) cli.Command {
		return &cli.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *cli.Context) error {
				if _, err := ctx.Env.StorageRoot(); err != nil {
					if errors.Is(err, location.ErrNotInitialized) {
						return fmt.Errorf("no mote storage found in %s, run 'mote init' first", ctx.Env.ProjectRoot)
					}
					return err
				}
				return cmd.Run(ctx)
			},
		}
	}
}
