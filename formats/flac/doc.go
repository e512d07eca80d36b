// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams with github.com/mewkiz/flac.
//
// Frames are parsed lazily as samples are requested, so memory use is bounded
// by one FLAC block regardless of file length.
package flac
