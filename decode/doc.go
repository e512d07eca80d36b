// SPDX-License-Identifier: EPL-2.0

// Package decode turns an audio.Asset into an audio.Buffer.
//
// The container is identified from its leading bytes, with the asset's file
// extension as a fallback, and decoded by whichever decoder is registered for
// that format. The set of formats is a capability of the registry, not a
// fixed list:
//
//	d := decode.New(decode.WithLogger(logger))
//	fmt.Println(d.Formats()) // [aiff flac mp3 ogg opus wav]
//	buf, err := d.Decode(ctx, asset)
//	if errors.Is(err, decode.ErrDecode) {
//	    // waveform failed to load, reopen the editor
//	}
//
// A failed decode is final; callers start over with a new attempt.
package decode
