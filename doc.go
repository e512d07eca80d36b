// SPDX-License-Identifier: EPL-2.0

// Package audtrim trims audio recordings and exports the selection as WAV.
//
// The root package is the one-shot path: decode an asset, constrain a
// [start, end) selection in seconds, and encode it. Interactive editing
// (waveform, region gestures, previews) lives in the session package.
//
// # Supported Formats
//
// The default decoder recognizes, by magic bytes and then by extension:
//   - WAV (PCM 8/16/24/32-bit and IEEE float) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//   - Ogg Opus via formats/opus
//
// # Quick Start
//
//	asset, _ := audio.NewFileAsset("interview.mp3")
//	res, err := audtrim.Trim(ctx, asset, 12.5, 40, audtrim.Options{MaxDuration: 30})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(res.Name, res.Bytes, 0o644)
//
// The selection is clamped the same way the region editor clamps it: a
// reversed range is swapped, a range longer than MaxDuration is cut to
// MaxDuration, and both ends are kept inside the recording. A selection that
// collapses to nothing exports the default region instead.
//
// # Output
//
// The result is a RIFF/WAVE file at the source sample rate with every source
// channel kept apart. 16-bit PCM is the default; wav.Float32 selects IEEE
// float.
//
// See the session package for the interactive workflow and cmd/audtrim for
// the command line tool.
package audtrim
