// SPDX-License-Identifier: EPL-2.0

package sndbuf

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
	"github.com/ik5/sndbuf/formats/vorbis"
	"github.com/ik5/sndbuf/internal/audiotest"
	"github.com/ik5/sndbuf/resource"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store  *audiotest.Store
	dev    *audiotest.Device
	dec    *audiotest.Decoder
	loader *Loader
}

func newFixture(t *testing.T, data map[string][]byte, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		store: audiotest.NewStore(data),
		dev:   audiotest.NewDevice(),
		dec:   audiotest.NewDecoder(),
	}

	loader, err := New(f.store, f.dev, append([]Option{WithDecoder(f.dec)}, opts...)...)
	require.NoError(t, err)
	f.loader = loader

	return f
}

// assertReleased checks that every intermediate buffer went back to its pool.
func (f *fixture) assertReleased(t *testing.T) {
	t.Helper()

	assert.Zero(t, f.store.Unreleased(), "encoded blobs left unreleased")
	assert.Zero(t, f.dec.Pool().Outstanding(), "decoded PCM left unreleased")
}

func TestLoad_Mono(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 100, -100, 32767, -32768}
	f := newFixture(t, map[string][]byte{"beep.clip": audiotest.EncodeClip(1, 22050, samples)})

	id, err := f.loader.Load("beep.clip")
	require.NoError(t, err)
	assert.NotEqual(t, device.NoBuffer, id)

	buf, ok := f.dev.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Mono16, buf.Format)
	assert.Equal(t, 22050, buf.SampleRate)
	assert.Equal(t, samples, buf.Samples)

	f.assertReleased(t)
}

func TestLoad_Stereo(t *testing.T) {
	t.Parallel()

	samples := []int16{1, 2, 3, 4, 5, 6}
	f := newFixture(t, map[string][]byte{"pair.clip": audiotest.EncodeClip(2, 44100, samples)})

	id, err := f.loader.Load("pair.clip")
	require.NoError(t, err)

	buf, ok := f.dev.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Stereo16, buf.Format)
	assert.Equal(t, 44100, buf.SampleRate)
	assert.Equal(t, samples, buf.Samples)
	assert.Equal(t, 3, buf.Frames())

	gens, uploads, deletes := f.dev.Counts()
	assert.Equal(t, 1, gens)
	assert.Equal(t, 1, uploads)
	assert.Zero(t, deletes)

	f.assertReleased(t)
}

func TestLoad_VorbisMono(t *testing.T) {
	t.Parallel()

	bank := device.NewBank()
	loader, err := New(resource.Dir("testdata"), bank)
	require.NoError(t, err)

	id, err := loader.Load("test.ogg")
	require.NoError(t, err)
	assert.NotEqual(t, device.NoBuffer, id)

	buf, ok := bank.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Mono16, buf.Format)
	assert.Equal(t, 44100, buf.SampleRate)
	assert.Equal(t, 44100, buf.Frames())
}

func TestLoad_VorbisStereo(t *testing.T) {
	t.Parallel()

	bank := device.NewBank()
	loader, err := New(resource.Dir("testdata"), bank)
	require.NoError(t, err)

	id, err := loader.Load("/eof_issue.ogg")
	require.NoError(t, err)

	buf, ok := bank.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Stereo16, buf.Format)
	assert.Equal(t, 44100, buf.SampleRate)
	assert.Equal(t, 72384, buf.Frames())
}

func TestLoad_VorbisReleasesDecodedSamples(t *testing.T) {
	t.Parallel()

	pool := audio.NewPool()
	bank := device.NewBank()

	loader, err := New(resource.Dir("testdata"), bank, WithDecoder(vorbis.Decoder{Pool: pool}))
	require.NoError(t, err)

	for _, name := range []string{"test.ogg", "eof_issue.ogg"} {
		_, err := loader.Load(name)
		require.NoError(t, err, name)
	}

	assert.Zero(t, pool.Outstanding())
	assert.Equal(t, 2, bank.Len())
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	id, err := f.loader.Load("missing.ogg")
	require.Error(t, err)
	assert.Equal(t, device.NoBuffer, id)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.ErrorIs(t, err, resource.ErrNotFound)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "read", le.Op)
	assert.Equal(t, "missing.ogg", le.Resource)

	gens, _, _ := f.dev.Counts()
	assert.Zero(t, gens)
	assert.Zero(t, f.dec.Calls())

	assert.Equal(t, `sndbuf: read "missing.ogg": resource unavailable: resource not found: "missing.ogg"`, err.Error())
}

func TestLoad_DirectoryMessage(t *testing.T) {
	t.Parallel()

	loader, err := New(resource.Dir("testdata"), device.NewBank())
	require.NoError(t, err)

	_, err = loader.Load("/")
	require.ErrorIs(t, err, ErrResourceNotFound)
	assert.Equal(t, 1, strings.Count(err.Error(), "not found"), err.Error())
}

func TestLoad_DecodeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"garbage", []byte("definitely not audio")},
		{"truncated header", []byte("CLIP\x01")},
		{"odd payload", append(audiotest.EncodeClip(1, 8000, []int16{1}), 0xff)},
		{"zero rate", audiotest.EncodeClip(1, 0, []int16{1, 2})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, map[string][]byte{"x": tt.data})

			id, err := f.loader.Load("x")
			assert.Equal(t, device.NoBuffer, id)
			assert.ErrorIs(t, err, ErrDecode)
			assert.ErrorIs(t, err, audiotest.ErrBadClip)

			gens, _, _ := f.dev.Counts()
			assert.Zero(t, gens)
			assert.Equal(t, 1, f.store.Reads())
			f.assertReleased(t)
		})
	}
}

func TestLoad_DefaultDecoderRejectsNonVorbis(t *testing.T) {
	t.Parallel()

	store := audiotest.NewStore(map[string][]byte{
		"empty.ogg": {},
		"junk.ogg":  bytes.Repeat([]byte{0x42}, 512),
	})
	dev := audiotest.NewDevice()

	loader, err := New(store, dev)
	require.NoError(t, err)

	for _, id := range []string{"empty.ogg", "junk.ogg"} {
		got, err := loader.Load(id)
		assert.Equal(t, device.NoBuffer, got, id)
		assert.ErrorIs(t, err, ErrDecode, id)
	}

	gens, _, _ := dev.Counts()
	assert.Zero(t, gens)
	assert.Zero(t, store.Unreleased())
}

func TestLoad_DistinctHandles(t *testing.T) {
	t.Parallel()

	clip := audiotest.SineClip(1, 8000, 400)
	f := newFixture(t, map[string][]byte{"tone": clip})

	first, err := f.loader.Load("tone")
	require.NoError(t, err)

	second, err := f.loader.Load("tone")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, f.dev.Len())

	a, _ := f.dev.Buffer(first)
	b, _ := f.dev.Buffer(second)
	assert.Equal(t, a.Samples, b.Samples)

	assert.Equal(t, 2, f.store.Reads())
	assert.EqualValues(t, 2, f.dec.Calls())
	f.assertReleased(t)
}

func TestLoad_ReleasesOnceOnSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(2, 16000, 160)})

	_, err := f.loader.Load("tone")
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.Reads())
	assert.EqualValues(t, 1, f.dec.Calls())
	f.assertReleased(t)
}

func TestLoad_UnsupportedChannels(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{3, 6} {
		f := newFixture(t, map[string][]byte{"surround": audiotest.SineClip(channels, 48000, 10)})

		id, err := f.loader.Load("surround")
		assert.Equal(t, device.NoBuffer, id)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.ErrorIs(t, err, audio.ErrUnsupportedChannels)

		gens, uploads, _ := f.dev.Counts()
		assert.Zero(t, gens, "no buffer may be allocated for %d channels", channels)
		assert.Zero(t, uploads)
		f.assertReleased(t)
	}
}

func TestLoad_DownmixMakesSurroundLoadable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{
		"surround": audiotest.EncodeClip(3, 8000, []int16{300, 600, 900, -3, -6, -9}),
	}, WithDownmix())

	id, err := f.loader.Load("surround")
	require.NoError(t, err)

	buf, ok := f.dev.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Mono16, buf.Format)
	assert.Equal(t, []int16{600, -6}, buf.Samples)
	f.assertReleased(t)
}

func TestLoad_TargetRate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(2, 16000, 1600)},
		WithTargetRate(8000), WithDownmix())

	id, err := f.loader.Load("tone")
	require.NoError(t, err)

	buf, ok := f.dev.Buffer(id)
	require.True(t, ok)
	assert.Equal(t, audio.Mono16, buf.Format)
	assert.Equal(t, 8000, buf.SampleRate)
	assert.Equal(t, 800, buf.Frames())
	f.assertReleased(t)
}

func TestLoad_TargetRateMatchingSource(t *testing.T) {
	t.Parallel()

	samples := []int16{5, 6, 7}
	f := newFixture(t, map[string][]byte{"x": audiotest.EncodeClip(1, 8000, samples)}, WithTargetRate(8000))

	id, err := f.loader.Load("x")
	require.NoError(t, err)

	buf, _ := f.dev.Buffer(id)
	assert.Equal(t, samples, buf.Samples)
	f.assertReleased(t)
}

func TestLoad_ConvertFailure(t *testing.T) {
	t.Parallel()

	pool := audio.NewPool()
	released := audio.DecoderFunc(func([]byte) (*audio.PCM, error) {
		pcm, err := pool.Get(2, 8000, 2)
		if err != nil {
			return nil, err
		}
		pcm.Append(1, 2)

		return pcm, pcm.Release()
	})

	store := audiotest.NewStore(map[string][]byte{"x": {1}})
	dev := audiotest.NewDevice()

	loader, err := New(store, dev, WithDecoder(released), WithDownmix())
	require.NoError(t, err)

	id, err := loader.Load("x")
	assert.Equal(t, device.NoBuffer, id)
	assert.ErrorIs(t, err, ErrConvert)
	assert.ErrorIs(t, err, audio.ErrReleased)
	assert.Zero(t, pool.Outstanding())
}

func TestLoad_NilPCMIsDecodeError(t *testing.T) {
	t.Parallel()

	nothing := audio.DecoderFunc(func([]byte) (*audio.PCM, error) { return nil, nil })

	loader, err := New(audiotest.NewStore(map[string][]byte{"x": {1}}), audiotest.NewDevice(), WithDecoder(nothing))
	require.NoError(t, err)

	_, err = loader.Load("x")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoad_AllocFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(1, 8000, 10)})
	f.dev.GenErr = errors.New("out of names")

	id, err := f.loader.Load("tone")
	assert.Equal(t, device.NoBuffer, id)
	assert.ErrorIs(t, err, ErrDevice)
	assert.ErrorContains(t, err, "out of names")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "alloc", le.Op)

	_, uploads, _ := f.dev.Counts()
	assert.Zero(t, uploads)
	f.assertReleased(t)
}

func TestLoad_UploadFailureDeletesBuffer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(2, 8000, 10)})
	f.dev.UploadErr = errors.New("device lost")

	id, err := f.loader.Load("tone")
	assert.Equal(t, device.NoBuffer, id)
	assert.ErrorIs(t, err, ErrDevice)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "upload", le.Op)

	gens, uploads, deletes := f.dev.Counts()
	assert.Equal(t, 1, gens)
	assert.Equal(t, 1, uploads)
	assert.Equal(t, 1, deletes)
	assert.Zero(t, f.dev.Len())
	f.assertReleased(t)
}

// genOnly allocates names but cannot delete them.
type genOnly struct{}

func (genOnly) GenBuffer() (device.BufferID, error) { return 7, nil }

func (genOnly) BufferData(device.BufferID, audio.Format, []int16, int) error {
	return errors.New("rejected")
}

func TestLoad_UploadFailureWithoutDeleter(t *testing.T) {
	t.Parallel()

	loader, err := New(audiotest.NewStore(map[string][]byte{"x": audiotest.SineClip(1, 8000, 4)}), genOnly{},
		WithDecoder(audiotest.NewDecoder()))
	require.NoError(t, err)

	id, err := loader.Load("x")
	assert.Equal(t, device.NoBuffer, id)
	assert.ErrorIs(t, err, ErrDevice)
}

type zeroNames struct{ genOnly }

func (zeroNames) GenBuffer() (device.BufferID, error) { return device.NoBuffer, nil }

func TestLoad_DeviceReturningNoBuffer(t *testing.T) {
	t.Parallel()

	loader, err := New(audiotest.NewStore(map[string][]byte{"x": audiotest.SineClip(1, 8000, 4)}), zeroNames{},
		WithDecoder(audiotest.NewDecoder()))
	require.NoError(t, err)

	_, err = loader.Load("x")
	assert.ErrorIs(t, err, ErrDevice)
}

func TestLoad_RegistrySelectsByExtension(t *testing.T) {
	t.Parallel()

	clips := audiotest.NewDecoder()
	reg := audio.NewRegistry()
	reg.Register("clip", clips)

	fallback := audiotest.NewDecoder()
	store := audiotest.NewStore(map[string][]byte{
		"a.clip": audiotest.SineClip(1, 8000, 4),
		"b.raw":  audiotest.SineClip(1, 8000, 4),
	})
	dev := audiotest.NewDevice()

	loader, err := New(store, dev, WithDecoder(fallback), WithRegistry(reg))
	require.NoError(t, err)

	_, err = loader.Load("a.clip")
	require.NoError(t, err)
	assert.EqualValues(t, 1, clips.Calls())
	assert.Zero(t, fallback.Calls())

	_, err = loader.Load("b.raw")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fallback.Calls())
}

func TestLoad_Concurrent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(2, 8000, 200)})

	const n = 16
	ids := make(chan device.BufferID, n)
	errs := make(chan error, n)

	for range n {
		go func() {
			id, err := f.loader.Load("tone")
			ids <- id
			errs <- err
		}()
	}

	seen := make(map[device.BufferID]bool)
	for range n {
		require.NoError(t, <-errs)
		id := <-ids
		assert.False(t, seen[id], "duplicate handle %d", id)
		seen[id] = true
	}

	assert.Equal(t, n, f.dev.Len())
	f.assertReleased(t)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	store := resource.NewMemory(nil)
	dev := device.NewBank()

	_, err := New(nil, dev)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = New(store, nil)
	assert.ErrorIs(t, err, ErrNilDevice)

	_, err = New(store, dev, WithDecoder(nil))
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = New(store, dev, WithTargetRate(-1))
	assert.ErrorIs(t, err, ErrInvalidOption)

	l, err := New(store, dev, WithLogger(nil), WithTargetRate(0))
	require.NoError(t, err)
	assert.NotNil(t, l.logger)
}

func TestLoad_Logging(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := newFixture(t, map[string][]byte{"tone": audiotest.SineClip(1, 8000, 8)}, WithLogger(logger))

	id, err := f.loader.Load("tone")
	require.NoError(t, err)

	logs := out.String()
	assert.Contains(t, logs, "resource=tone")
	assert.Contains(t, logs, "msg=decoded")
	assert.Contains(t, logs, "format=mono16")
	assert.Contains(t, logs, "buffer="+strconv.Itoa(int(id)))
}

func TestLoadError_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := newLoadError("decode", "a.ogg", ErrDecode, cause)

	assert.Equal(t, `sndbuf: decode "a.ogg": decode failed: boom`, err.Error())
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDevice)
}
