package utils

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SecureFilename reduces name to a single safe path component: accents are
// decomposed and non-ASCII dropped, both slash kinds become word breaks,
// whitespace runs become "_", anything outside [A-Za-z0-9_.-] is removed and
// leading/trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if windowsDeviceNames[stem] {
			name = "_" + name
		}
	}
	return name
}

// Extension returns the lowercased text after the last dot of name, or ""
// when name has no dot.
func Extension(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, `\`, "/"))
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
