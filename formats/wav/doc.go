// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes 16-bit PCM WAV files using
// github.com/go-audio/wav.
//
// # Decoding
//
//	pcm, err := wav.Decoder{}.Decode(data)
//	if err != nil {
//	    return err
//	}
//	defer pcm.Release()
//
// Only PCM (format tag 1) with 16 bits per sample is accepted; anything else
// fails with ErrOnlyPCM16bitSupported. Data that is not RIFF/WAVE fails with
// ErrNotWavFile.
//
// # Encoding
//
// Encode writes a PCM buffer of any channel count as a WAV file. The header
// sizes are patched when the encoder closes, so the destination must be an
// io.WriteSeeker such as *os.File:
//
//	f, _ := os.Create("out.wav")
//	defer f.Close()
//	err := wav.Encode(f, pcm)
package wav
