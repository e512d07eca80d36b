// SPDX-License-Identifier: EPL-2.0

// Package trim cuts a region out of a decoded buffer and encodes it as a
// RIFF/WAVE file.
//
// Regions are bounded to the buffer and converted to frames with
// floor(t * rate). A region that is empty once bounded exports the whole
// buffer rather than failing. Channels are copied as is and the sample rate
// is unchanged.
//
//	res, err := trim.Export(buf, region.Region{Start: 2, End: 7}, trim.Options{
//		SourceName: "take1.mp3",
//	})
//	// res.Name == "take1-trimmed.wav", res.MIMEType == "audio/wav"
package trim
