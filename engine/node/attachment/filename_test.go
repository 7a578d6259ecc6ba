package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileNameFromDisposition(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"Should read quoted filename", `attachment; filename="report final.pdf"`, "report final.pdf", true},
		{"Should decode extended filename", `attachment; filename*=UTF-8''rep%20ort.pdf`, "rep ort.pdf", true},
		{"Should read bare filename", `inline; filename=photo.jpg`, "photo.jpg", true},
		{"Should match case-insensitively", `attachment; FILENAME="Upper.TXT"`, "Upper.TXT", true},
		{"Should take the first match", `attachment; filename="a.pdf"; filename*=UTF-8''b.pdf`, "a.pdf", true},
		{"Should keep raw token when decoding fails", `attachment; filename="100%.txt"`, "100%.txt", true},
		{"Should keep raw token when escapes are not UTF-8", `attachment; filename*=UTF-8''%FF.pdf`, "%FF.pdf", true},
		{"Should report no match without filename", `attachment`, "", false},
		{"Should report no match on empty header", ``, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FileNameFromDisposition(tc.header)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileNameFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"Should take last segment and drop query", "https://x.test/files/img.png?x=1", "img.png", true},
		{"Should skip trailing slash", "https://x.test/files/docs/", "docs", true},
		{"Should decode escaped segment", "https://x.test/a/my%20file.txt", "my file.txt", true},
		{"Should keep encoded slash inside the segment", "https://x.test/a%2Fb.png", "a/b.png", true},
		{"Should keep raw segment when escapes are not UTF-8", "https://x.test/files/%FF.bin", "%FF.bin", true},
		{"Should report no match for bare host", "https://x.test", "", false},
		{"Should report no match for relative reference", "files/img.png", "", false},
		{"Should report no match for malformed url", "http://[::1", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FileNameFromURL(tc.url)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveFileName(t *testing.T) {
	t.Run("Should prefer override", func(t *testing.T) {
		got := ResolveFileName("custom.bin", `attachment; filename="report.pdf"`, "https://x.test/a.png")

		assert.Equal(t, "custom.bin", got)
	})

	t.Run("Should prefer header over url", func(t *testing.T) {
		got := ResolveFileName("", `attachment; filename="report final.pdf"`, "https://x.test/a.png")

		assert.Equal(t, "report final.pdf", got)
	})

	t.Run("Should fall back to url segment", func(t *testing.T) {
		assert.Equal(t, "img.png", ResolveFileName("", "", "https://x.test/files/img.png?x=1"))
	})

	t.Run("Should fall back to default name", func(t *testing.T) {
		assert.Equal(t, DefaultFileName, ResolveFileName("  ", "", "not a url"))
	})
}
