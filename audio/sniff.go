package audio

import "bytes"

// signature is one entry of the MP3 magic-number table.
type signature struct {
	name   string
	prefix []byte
}

// mp3Signatures is checked in order. Bare MPEG frame syncs cover MPEG-1
// and MPEG-2 Layer III with and without CRC; "ID3" covers tagged files.
var mp3Signatures = []signature{
	{name: "mpeg1-layer3", prefix: []byte{0xFF, 0xFB}},
	{name: "mpeg1-layer3-crc", prefix: []byte{0xFF, 0xFA}},
	{name: "mpeg2-layer3", prefix: []byte{0xFF, 0xF3}},
	{name: "mpeg2-layer3-crc", prefix: []byte{0xFF, 0xF2}},
	{name: "id3", prefix: []byte("ID3")},
}

// IsMP3 reports whether data begins with a known MP3 signature.
// Inputs shorter than a signature never match.
func IsMP3(data []byte) bool {
	return MatchSignature(data) != ""
}

// MatchSignature returns the name of the first signature data starts with,
// or "" when none match.
func MatchSignature(data []byte) string {
	for _, sig := range mp3Signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.name
		}
	}
	return ""
}
