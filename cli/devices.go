package cli

import (
	"fmt"
	"text/tabwriter"

	"talkie-assistant/audio_stream/microphone"

	"github.com/spf13/cobra"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := microphone.InputDevices()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHANNELS\tSAMPLE RATE\tDEFAULT")

			for _, d := range devices {
				def := ""
				if d.Default {
					def = "*"
				}

				fmt.Fprintf(w, "%s\t%d\t%.0f\t%s\n", d.Name, d.MaxInputChannels, d.DefaultSampleRate, def)
			}

			return w.Flush()
		},
	}
}
