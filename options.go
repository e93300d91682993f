// SPDX-License-Identifier: EPL-2.0

package sndbuf

import (
	"fmt"
	"log/slog"

	"github.com/ik5/sndbuf/audio"
)

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets the logger used for per-step debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger != nil {
			l.logger = logger
		}

		return nil
	}
}

// WithDecoder replaces the default Ogg Vorbis decoder.
func WithDecoder(d audio.Decoder) Option {
	return func(l *Loader) error {
		if d == nil {
			return fmt.Errorf("%w: nil decoder", ErrInvalidOption)
		}

		l.decoder = d

		return nil
	}
}

// WithRegistry selects decoders by resource extension. Resources whose
// extension is not registered use the default decoder.
func WithRegistry(r *audio.Registry) Option {
	return func(l *Loader) error {
		l.registry = r
		return nil
	}
}

// WithTargetRate resamples decoded audio to hz before upload. Zero keeps the
// source rate.
func WithTargetRate(hz int) Option {
	return func(l *Loader) error {
		if hz < 0 {
			return fmt.Errorf("%w: target rate %d", ErrInvalidOption, hz)
		}

		l.targetRate = hz

		return nil
	}
}

// WithDownmix mixes decoded audio to mono before upload.
func WithDownmix() Option {
	return func(l *Loader) error {
		l.downmix = true
		return nil
	}
}
