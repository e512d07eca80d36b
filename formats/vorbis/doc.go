// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// Samples come out interleaved as float32 in [-1.0, 1.0]. The total length
// from the stream header is reported through audio.FrameCounter.
package vorbis
