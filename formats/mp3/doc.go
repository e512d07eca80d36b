// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits 16 bit stereo, so the Source returned by Decoder has
// two channels even for mono files. When the stream length is known it is
// reported through audio.FrameCounter.
package mp3
