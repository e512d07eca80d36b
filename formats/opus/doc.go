// SPDX-License-Identifier: EPL-2.0

// Package opus decodes Ogg Opus files with gopkg.in/hraban/opus.v2, which
// binds libopus and libopusfile through cgo.
//
// Output is always 48 kHz. The channel count is read from the OpusHead
// packet before decoding starts.
package opus
