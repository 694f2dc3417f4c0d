package xmlnav

import (
	"regexp"
	"unicode/utf8"
)

// maxRepairRounds bounds how many times RepairMojibake re-decodes a value.
const maxRepairRounds = 2

var mojibakePattern = regexp.MustCompile(`Ã.|Â.|â[\x{0080}-\x{00BF}]|\x{FFFD}`)

// LooksLikeMojibake reports whether s shows the typical traces of UTF-8
// text that was decoded as Latin-1.
func LooksLikeMojibake(s string) bool {
	return s != "" && mojibakePattern.MatchString(s)
}

// RepairMojibake undoes UTF-8-read-as-Latin-1 corruption, e.g.
// "TelemÃ³vel" becomes "Telemóvel". Each round maps every character to its
// low byte and decodes the result as UTF-8. Text that does not look
// corrupted, or that fails to decode, is returned unchanged.
func RepairMojibake(s string) string {
	if !LooksLikeMojibake(s) {
		return s
	}
	text := s
	for range maxRepairRounds {
		decoded, ok := redecode(text)
		if !ok || decoded == "" || decoded == text {
			break
		}
		text = decoded
		if !LooksLikeMojibake(text) {
			break
		}
	}
	return text
}

func redecode(s string) (string, bool) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = append(buf, byte(r&0xff))
	}
	if !utf8.Valid(buf) {
		return "", false
	}
	return string(buf), true
}
