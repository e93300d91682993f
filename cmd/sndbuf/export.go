// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/sndbuf"
	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
	"github.com/ik5/sndbuf/formats/wav"
)

func exportCommand(settings *Settings) *cobra.Command {
	var (
		rate int
		mono bool
	)

	cmd := &cobra.Command{
		Use:   "export [input] [output.wav]",
		Short: "Load a file and write the buffer as 16-bit WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []sndbuf.Option{sndbuf.WithTargetRate(rate)}
			if mono {
				opts = append(opts, sndbuf.WithDownmix())
			}

			bank := device.NewBank()

			loader, err := settings.newLoader(cmd, bank, opts...)
			if err != nil {
				return err
			}

			id, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			buf, _ := bank.Buffer(id)
			if err := writeWAV(args[1], buf); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %v @ %d Hz, %v\n", args[1], buf.Format, buf.SampleRate, buf.Duration())

			return nil
		},
	}

	cmd.Flags().IntVarP(&rate, "rate", "r", 0, "Resample to this rate in Hz (0 keeps the source rate)")
	cmd.Flags().BoolVar(&mono, "mono", false, "Mix down to mono")

	return cmd
}

func writeWAV(path string, buf device.Buffer) (err error) {
	pcm, err := audio.DefaultPool.Get(buf.Format.Channels(), buf.SampleRate, len(buf.Samples))
	if err != nil {
		return err
	}
	defer pcm.Release()

	pcm.Append(buf.Samples...)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := wav.Encode(f, pcm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
