// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// Decoder is built on github.com/go-audio/wav and accepts integer PCM at 8,
// 16, 24 and 32 bits as well as 32 bit IEEE float (format code 3). Unknown
// chunks are skipped.
//
// Encode writes a canonical 44 byte header followed by a single data chunk:
//
//	err := wav.Encode(w, buf, wav.PCM16)
//
// PCM16 output clamps every sample to [-1, 1] and scales negative values by
// 32768 and positive values by 32767 before truncating, so -1 maps to -32768
// and 1 to 32767. Float32 output clamps and stores the IEEE bits. Samples are
// interleaved frame by frame and all header fields are little-endian.
package wav
