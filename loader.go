// SPDX-License-Identifier: EPL-2.0

package sndbuf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
	"github.com/ik5/sndbuf/formats/vorbis"
	"github.com/ik5/sndbuf/resource"
)

// Loader reads encoded audio resources, decodes them and uploads the PCM
// into new device buffers. A Loader holds no per-call state; it is safe for
// concurrent use when its store and device are.
type Loader struct {
	store  resource.Store
	dev    device.Device
	logger *slog.Logger

	decoder    audio.Decoder
	registry   *audio.Registry
	targetRate int
	downmix    bool
}

// New creates a Loader. Without options it decodes Ogg Vorbis into
// audio.DefaultPool and uploads at the source rate and channel count.
func New(store resource.Store, dev device.Device, opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if dev == nil {
		return nil, ErrNilDevice
	}

	l := &Loader{
		store:   store,
		dev:     dev,
		logger:  slog.New(slog.DiscardHandler),
		decoder: vorbis.Decoder{},
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load reads resourceID, decodes it and uploads the samples into a newly
// allocated device buffer, whose ID is returned. The caller owns the buffer.
//
// On failure Load returns device.NoBuffer and a *LoadError wrapping one of
// ErrResourceNotFound, ErrDecode, ErrConvert, ErrUnsupportedFormat or
// ErrDevice. Encoded bytes and decoded samples are released before Load
// returns on every path.
func (l *Loader) Load(resourceID string) (device.BufferID, error) {
	log := l.logger.With(slog.String("resource", resourceID))

	pcm, err := l.decode(resourceID, log)
	if err != nil {
		return device.NoBuffer, err
	}
	defer l.release(log, "decoded samples", pcm.Release)

	if l.downmix && pcm.Channels() > 1 {
		mono, err := audio.Downmix(pcm)
		if err != nil {
			return device.NoBuffer, newLoadError("convert", resourceID, ErrConvert, err)
		}
		defer l.release(log, "downmixed samples", mono.Release)

		log.Debug("downmixed", slog.Int("channels", pcm.Channels()))
		pcm = mono
	}

	if l.targetRate > 0 && l.targetRate != pcm.SampleRate() {
		resampled, err := audio.Resample(pcm, l.targetRate)
		if err != nil {
			return device.NoBuffer, newLoadError("convert", resourceID, ErrConvert, err)
		}
		defer l.release(log, "resampled samples", resampled.Release)

		log.Debug("resampled", slog.Int("from", pcm.SampleRate()), slog.Int("to", l.targetRate))
		pcm = resampled
	}

	format, err := audio.FormatForChannels(pcm.Channels())
	if err != nil {
		return device.NoBuffer, newLoadError("format", resourceID, ErrUnsupportedFormat, err)
	}

	return l.upload(resourceID, log, format, pcm)
}

// decode reads and decodes the resource. The encoded bytes are released when
// it returns, whatever the outcome.
func (l *Loader) decode(resourceID string, log *slog.Logger) (*audio.PCM, error) {
	blob, err := l.store.ReadAll(resourceID)
	if err != nil {
		return nil, newLoadError("read", resourceID, ErrResourceNotFound, err)
	}
	defer l.release(log, "encoded bytes", blob.Release)

	log.Debug("read resource", slog.Int("bytes", blob.Len()))

	pcm, err := l.decoderFor(resourceID).Decode(blob.Bytes())
	if err != nil {
		return nil, newLoadError("decode", resourceID, ErrDecode, err)
	}

	if pcm == nil {
		return nil, newLoadError("decode", resourceID, ErrDecode, errors.New("decoder returned no samples"))
	}

	log.Debug("decoded",
		slog.Int("channels", pcm.Channels()),
		slog.Int("rate", pcm.SampleRate()),
		slog.Int("samples", len(pcm.Samples())))

	return pcm, nil
}

func (l *Loader) decoderFor(resourceID string) audio.Decoder {
	if l.registry != nil {
		if d, ok := l.registry.Lookup(resourceID); ok {
			return d
		}
	}

	return l.decoder
}

func (l *Loader) upload(resourceID string, log *slog.Logger, format audio.Format, pcm *audio.PCM) (device.BufferID, error) {
	id, err := l.dev.GenBuffer()
	if err == nil && id == device.NoBuffer {
		err = errors.New("device returned no buffer")
	}
	if err != nil {
		return device.NoBuffer, newLoadError("alloc", resourceID, ErrDevice, err)
	}

	if err := l.dev.BufferData(id, format, pcm.Samples(), pcm.SampleRate()); err != nil {
		if d, ok := l.dev.(device.Deleter); ok {
			if derr := d.DeleteBuffer(id); derr != nil {
				err = errors.Join(err, fmt.Errorf("deleting buffer %d: %w", id, derr))
			}
		}

		return device.NoBuffer, newLoadError("upload", resourceID, ErrDevice, err)
	}

	log.Debug("uploaded",
		slog.Int("buffer", int(id)),
		slog.String("format", format.String()),
		slog.Int("rate", pcm.SampleRate()),
		slog.Int("samples", len(pcm.Samples())))

	return id, nil
}

func (l *Loader) release(log *slog.Logger, what string, release func() error) {
	if err := release(); err != nil {
		log.Warn("release failed", slog.String("what", what), slog.Any("error", err))
	}
}
