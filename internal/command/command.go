package command

import (
	commandHandler "workforce/internal/command/handler"
	"workforce/internal/identity"
	"workforce/internal/service"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewIdentityOutboxHandler,
	service.NewIdentityCleanupService,
	identity.NewClerkDirectory,
)

type Command struct {
	identityOutboxHandler *commandHandler.IdentityOutboxHandler
}

// NewCommand .
func NewCommand(
	identityOutboxHandler *commandHandler.IdentityOutboxHandler,
) *Command {
	return &Command{
		identityOutboxHandler: identityOutboxHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	run := func(fn func(*commandHandler.IdentityOutboxHandler) func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return fn(command.identityOutboxHandler)(cmd, args)
		}
	}

	outbox := &cobra.Command{
		Use:   "identity-outbox",
		Short: "manage queued identity account removals",
	}
	outbox.AddCommand(
		&cobra.Command{
			Use:   "drain",
			Short: "process due identity cleanup jobs for every tenant once",
			Args:  cobra.NoArgs,
			RunE: run(func(h *commandHandler.IdentityOutboxHandler) func(*cobra.Command, []string) error {
				return h.Drain
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "show pending and failed job counts per tenant",
			Args:  cobra.NoArgs,
			RunE: run(func(h *commandHandler.IdentityOutboxHandler) func(*cobra.Command, []string) error {
				return h.Status
			}),
		},
		&cobra.Command{
			Use:   "ensure-indexes",
			Short: "create outbox indexes in every tenant database",
			Args:  cobra.NoArgs,
			RunE: run(func(h *commandHandler.IdentityOutboxHandler) func(*cobra.Command, []string) error {
				return h.EnsureIndexes
			}),
		},
	)
	rootCmd.AddCommand(outbox)
}
