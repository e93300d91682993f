// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/sndbuf"
	"github.com/ik5/sndbuf/device/otodev"
)

func playCommand(settings *Settings) *cobra.Command {
	var rate int

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Load a file and play it on the default output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := otodev.Open(otodev.Options{
				SampleRate: rate,
				Logger:     settings.logger(cmd),
			})
			if err != nil {
				return err
			}

			loader, err := settings.newLoader(cmd, dev, sndbuf.WithTargetRate(dev.SampleRate()))
			if err != nil {
				return err
			}

			id, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			defer dev.DeleteBuffer(id)

			voice, err := dev.Play(id)
			if err != nil {
				return fmt.Errorf("playing %s: %w", args[0], err)
			}
			defer voice.Close()

			return voice.Wait(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&rate, "rate", "r", 44100, "Output sample rate in Hz")

	return cmd
}
