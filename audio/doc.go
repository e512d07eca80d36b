// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks of audtrim.
//
//   - Source, the streaming interface every decoder returns
//   - Asset, an immutable handle to encoded bytes
//   - Buffer, fully decoded planar PCM, and Collect to build one from a Source
//   - BufferSource, which streams a Buffer back out, optionally looping a range
//   - Resampler and MonoMixer for rate and channel conversion
//   - Registry and DetectFormat for decoder dispatch
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// ReadSamples fills dst with interleaved float32 samples and returns io.EOF
// once the stream is drained. Sources that know their length also implement
// FrameCounter, which lets Collect size its buffers up front.
//
// # Buffers
//
// A Buffer keeps one slice per channel:
//
//	buf, err := audio.Collect(ctx, src)
//	part, err := buf.Slice(startFrame, endFrame)
//
// Slicing copies and never mixes channels. Values nominally lie in
// [-1.0, 1.0] but are not clamped here; encoders clamp on output.
//
// # Format Detection
//
// DetectFormat looks at the first SniffLen bytes of a file and returns one of
// the Format constants, or "" when nothing matches:
//
//	registry := audio.NewRegistry()
//	registry.Register(audio.FormatWAV, wav.Decoder{})
//	dec, err := registry.Get(audio.DetectFormat(head))
package audio
