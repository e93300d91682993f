// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/sndbuf/device"
)

func infoCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Load a file and describe the resulting buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank := device.NewBank()

			loader, err := settings.newLoader(cmd, bank)
			if err != nil {
				return err
			}

			id, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			buf, _ := bank.Buffer(id)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:     %s\n", args[0])
			fmt.Fprintf(out, "format:   %v\n", buf.Format)
			fmt.Fprintf(out, "rate:     %d Hz\n", buf.SampleRate)
			fmt.Fprintf(out, "frames:   %d\n", buf.Frames())
			fmt.Fprintf(out, "duration: %v\n", buf.Duration())

			return nil
		},
	}
}
