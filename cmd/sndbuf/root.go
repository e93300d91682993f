// SPDX-License-Identifier: EPL-2.0

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/sndbuf"
	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
	"github.com/ik5/sndbuf/formats/aiff"
	"github.com/ik5/sndbuf/formats/mp3"
	"github.com/ik5/sndbuf/formats/vorbis"
	"github.com/ik5/sndbuf/formats/wav"
	"github.com/ik5/sndbuf/resource"
)

// Settings holds the global flags.
type Settings struct {
	Verbose    bool
	AllFormats bool
}

// RootCommand creates the sndbuf command tree.
func RootCommand() *cobra.Command {
	settings := &Settings{}

	rootCmd := &cobra.Command{
		Use:           "sndbuf",
		Short:         "Load audio files into device buffers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		infoCommand(settings),
		playCommand(settings),
		exportCommand(settings),
	)

	return rootCmd
}

func setupFlags(rootCmd *cobra.Command, settings *Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Verbose, "verbose", "v", false, "Log each load step to stderr")
	rootCmd.PersistentFlags().BoolVar(&settings.AllFormats, "all-formats", false, "Pick the decoder by extension (wav, mp3, ogg, aiff) instead of always Ogg Vorbis")
}

func (s *Settings) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if s.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func registry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// newLoader builds a loader reading plain file paths into dev.
func (s *Settings) newLoader(cmd *cobra.Command, dev device.Device, opts ...sndbuf.Option) (*sndbuf.Loader, error) {
	base := []sndbuf.Option{sndbuf.WithLogger(s.logger(cmd))}
	if s.AllFormats {
		base = append(base, sndbuf.WithRegistry(registry()))
	}

	return sndbuf.New(resource.Files(), dev, append(base, opts...)...)
}
