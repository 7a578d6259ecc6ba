package attachment

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultFileName is used when no other source yields a name.
const DefaultFileName = "attachment"

var dispositionFileName = regexp.MustCompile(`(?i)filename\*?=(?:UTF-8''|")?([^";]+)`)

// FileNameFromDisposition extracts the first filename token of a
// Content-Disposition header, percent-decoded. Tokens that fail to decode,
// including escapes that do not form valid UTF-8, are returned raw.
func FileNameFromDisposition(header string) (string, bool) {
	match := dispositionFileName.FindStringSubmatch(header)
	if match == nil {
		return "", false
	}
	raw := match[1]
	decoded, ok := unescapeSegment(raw)
	if !ok {
		return raw, true
	}
	return decoded, decoded != ""
}

// FileNameFromURL returns the last non-empty path segment of an absolute URL,
// split on the escaped path so an encoded slash stays inside its segment.
func FileNameFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() {
		return "", false
	}
	segments := strings.Split(u.EscapedPath(), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		if decoded, ok := unescapeSegment(segments[i]); ok && decoded != "" {
			return decoded, true
		}
		return segments[i], true
	}
	return "", false
}

func unescapeSegment(raw string) (string, bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}

// ResolveFileName applies the override, then the header, then the URL.
func ResolveFileName(override, disposition, rawURL string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if name, ok := FileNameFromDisposition(disposition); ok {
		return name
	}
	if name, ok := FileNameFromURL(rawURL); ok {
		return name
	}
	return DefaultFileName
}
