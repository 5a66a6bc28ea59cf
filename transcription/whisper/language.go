package whisper

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	namesOnce  sync.Once
	codeByName map[string]string
)

// NormalizeLanguage turns a detection result into a code the /asr endpoint
// accepts, plus its English display name when known. Codes are lowercased;
// English names such as "english" map to their base code. Values that are
// neither pass through unchanged with an empty name.
func NormalizeLanguage(raw string) (code, name string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if tag, err := language.Parse(raw); err == nil {
		return strings.ToLower(raw), display.English.Languages().Name(tag)
	}

	namesOnce.Do(buildNameIndex)
	if base, ok := codeByName[strings.ToLower(raw)]; ok {
		tag := language.Make(base)
		return base, display.English.Languages().Name(tag)
	}
	return raw, ""
}

func buildNameIndex() {
	codeByName = make(map[string]string)
	namer := display.English.Languages()
	for _, tag := range display.Supported.Tags() {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		name := strings.ToLower(namer.Name(language.Make(base.String())))
		if name == "" {
			continue
		}
		if _, dup := codeByName[name]; !dup {
			codeByName[name] = base.String()
		}
	}
}
