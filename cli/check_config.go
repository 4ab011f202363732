package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config ok: motion=%s wake_word=%t conversation=%s\n",
				settings.Motion.Driver, settings.WakeWord.Enabled, settings.Conversation.Engine)

			return nil
		},
	}
}
