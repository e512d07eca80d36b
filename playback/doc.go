// SPDX-License-Identifier: EPL-2.0

// Package playback previews a decoded buffer, either the whole asset or a
// region looping from its end back to its start.
//
// Output goes through a Device. NewOtoDevice opens the system output with
// github.com/ebitengine/oto/v3 in stereo float32; tests use an in-memory
// device. The Player also implements waveform.Tap so the live spectrum can
// follow what is playing.
package playback
