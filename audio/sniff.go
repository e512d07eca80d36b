// SPDX-License-Identifier: EPL-2.0

package audio

import "bytes"

// Format keys understood by DetectFormat and used as Registry keys.
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatFLAC   = "flac"
	FormatMP3    = "mp3"
	FormatVorbis = "ogg"
	FormatOpus   = "opus"
	FormatAAC    = "aac"
)

// SniffLen is the number of leading bytes DetectFormat looks at.
const SniffLen = 512

// DetectFormat identifies the container from its leading bytes. It returns an
// empty string when the bytes are not recognized.
func DetectFormat(head []byte) string {
	switch {
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return FormatAIFF
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(head, []byte("OggS")):
		return detectOgg(head)
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MPEG frame sync. Layer bits 00 mark an ADTS (AAC) header.
		if head[1]&0x06 == 0 {
			return FormatAAC
		}
		return FormatMP3
	}

	return ""
}

// detectOgg looks at the first Ogg page payload for a codec identification
// header.
func detectOgg(head []byte) string {
	payload := oggFirstPayload(head)

	switch {
	case bytes.HasPrefix(payload, []byte("OpusHead")):
		return FormatOpus
	case bytes.HasPrefix(payload, []byte("\x01vorbis")):
		return FormatVorbis
	case bytes.Contains(head, []byte("OpusHead")):
		return FormatOpus
	case bytes.Contains(head, []byte("vorbis")):
		return FormatVorbis
	}

	return ""
}

// oggFirstPayload returns the payload of the first Ogg page, or nil when the
// page header is truncated.
func oggFirstPayload(head []byte) []byte {
	const pageHeader = 27
	if len(head) < pageHeader {
		return nil
	}

	segments := int(head[26])
	start := pageHeader + segments
	if len(head) < start {
		return nil
	}

	return head[start:]
}

// OpusChannels reads the channel count from an OpusHead identification header
// at the start of an Ogg stream. It returns 0 when the header is not found.
func OpusChannels(head []byte) int {
	payload := oggFirstPayload(head)
	if len(payload) < 10 || !bytes.HasPrefix(payload, []byte("OpusHead")) {
		return 0
	}

	return int(payload[9])
}
