// SPDX-License-Identifier: EPL-2.0

// Package otodev is a device backed by github.com/ebitengine/oto/v3.
// Buffers are held in memory by a device.Bank and played through one
// process-wide oto context.
package otodev

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
)

var (
	ErrRateMismatch    = errors.New("buffer sample rate does not match the output")
	ErrChannelMismatch = errors.New("buffer has more channels than the output")
	ErrEmptyBuffer     = errors.New("buffer holds no samples")
)

// player is the part of *oto.Player used here.
type player interface {
	Play()
	IsPlaying() bool
	Close() error
}

type playerFactory interface {
	NewPlayer(r io.Reader) player
}

type otoContext struct {
	ctx *oto.Context
}

func (c otoContext) NewPlayer(r io.Reader) player { return c.ctx.NewPlayer(r) }

// Options configures the output. Zero values pick 44100 Hz stereo.
type Options struct {
	SampleRate   int
	ChannelCount int
	BufferSize   time.Duration
	Logger       *slog.Logger
}

// Device is a device.Device whose buffers can be played.
type Device struct {
	*device.Bank

	out        playerFactory
	sampleRate int
	channels   int
	logger     *slog.Logger
}

// Open creates the oto context and waits until it is ready. oto allows a
// single context per process, so Open should be called once.
func Open(opts Options) (*Device, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.ChannelCount == 0 {
		opts.ChannelCount = 2
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: opts.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-ready

	return newDevice(otoContext{ctx: ctx}, opts.SampleRate, opts.ChannelCount, opts.Logger), nil
}

func newDevice(out playerFactory, sampleRate, channels int, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Device{
		Bank:       device.NewBank(),
		out:        out,
		sampleRate: sampleRate,
		channels:   channels,
		logger:     logger,
	}
}

func (d *Device) SampleRate() int { return d.sampleRate }
func (d *Device) Channels() int   { return d.channels }

// Play starts playback of an uploaded buffer and returns its voice.
// The buffer must have the output's sample rate; mono buffers are
// duplicated across output channels.
func (d *Device) Play(id device.BufferID) (*Voice, error) {
	buf, ok := d.Buffer(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", device.ErrUnknownBuffer, id)
	}

	if len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrEmptyBuffer, id)
	}

	if buf.SampleRate != d.sampleRate {
		return nil, fmt.Errorf("%w: buffer %d Hz, output %d Hz", ErrRateMismatch, buf.SampleRate, d.sampleRate)
	}

	data, err := encode(buf, d.channels)
	if err != nil {
		return nil, err
	}

	p := d.out.NewPlayer(bytes.NewReader(data))
	p.Play()

	d.logger.Debug("playing buffer",
		slog.Int("buffer", int(id)),
		slog.String("format", buf.Format.String()),
		slog.Duration("duration", buf.Duration()))

	return &Voice{player: p}, nil
}

// encode lays the buffer out as signed 16-bit little-endian frames of
// outChannels channels.
func encode(buf device.Buffer, outChannels int) ([]byte, error) {
	inChannels := buf.Format.Channels()
	if inChannels > outChannels {
		return nil, fmt.Errorf("%w: %v on %d channels", ErrChannelMismatch, buf.Format, outChannels)
	}

	frames := buf.Frames()
	out := make([]byte, frames*outChannels*2)

	for f := range frames {
		for c := range outChannels {
			s := buf.Samples[f*inChannels+min(c, inChannels-1)]
			binary.LittleEndian.PutUint16(out[(f*outChannels+c)*2:], uint16(s))
		}
	}

	return out, nil
}

// Voice is one playing buffer.
type Voice struct {
	player player
}

func (v *Voice) IsPlaying() bool { return v.player.IsPlaying() }

// Wait blocks until playback finishes or ctx is done.
func (v *Voice) Wait(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for v.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w", ctx.Err())
		case <-ticker.C:
		}
	}

	return nil
}

func (v *Voice) Close() error {
	if err := v.player.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
