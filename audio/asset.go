package audio

import (
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/whisper-mcp/util"
)

// Asset is resolved audio: the raw bytes plus a filename hint used as a
// format cue by the conversion service. Treat it as immutable; stages that
// change the bytes return a new Asset via WithData.
type Asset struct {
	Data     []byte
	Filename string
}

// WithData returns a copy of a carrying new bytes and the same filename.
func (a *Asset) WithData(data []byte) *Asset {
	return &Asset{Data: data, Filename: a.Filename}
}

// Size is the byte length of the payload.
func (a *Asset) Size() int { return len(a.Data) }

// IsMP3 reports whether the payload already starts with an MP3 signature.
func (a *Asset) IsMP3() bool { return IsMP3(a.Data) }

// MIME returns the content type sniffed from the payload.
func (a *Asset) MIME() string {
	return mimetype.Detect(a.Data).String()
}

// UploadName returns the filename to send upstream. A bare name such as
// "audio" gains the extension sniffed from the payload so the converter
// has a format cue; names that already carry an extension keep it.
// Control characters are stripped since the name lands in a MIME header.
func (a *Asset) UploadName() string {
	name := util.Coalesce(util.SanitizeString(a.Filename), defaultFilename)
	if filepath.Ext(name) != "" {
		return name
	}
	return name + mimetype.Detect(a.Data).Extension()
}
