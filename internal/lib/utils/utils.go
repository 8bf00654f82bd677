// Package utils contains small text helpers shared across services.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugMaxLen bounds generated slugs, including any numeric suffix.
const SlugMaxLen = 160

var (
	dashRun        = regexp.MustCompile(`-+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	unsafeFileChar = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	markdownSyntax = regexp.MustCompile("[#*_>`~\\[\\]]+")
)

// foldASCII strips diacritics so "Öğrenci Robotu" folds to "Ogrenci Robotu".
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify lowercases s and replaces every run of non-alphanumerics with a
// single dash. Letters without an ASCII form are dropped.
func Slugify(s string) string {
	s = strings.ToLower(foldASCII(strings.TrimSpace(s)))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == 'ı':
			b.WriteRune('i')
		default:
			b.WriteRune('-')
		}
	}

	out := strings.Trim(dashRun.ReplaceAllString(b.String(), "-"), "-")
	return truncateSlug(out, SlugMaxLen)
}

func truncateSlug(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.Trim(s[:n], "-")
}

// SlugCandidate returns the n-th candidate for base: base itself for n <= 1,
// then base-2, base-3 and so on, trimmed to SlugMaxLen.
func SlugCandidate(base string, n int) string {
	if base == "" {
		base = "item"
	}
	if n <= 1 {
		return base
	}
	suffix := fmt.Sprintf("-%d", n)
	return truncateSlug(base, SlugMaxLen-len(suffix)) + suffix
}

// Excerpt derives a plain-text summary of at most maxLen runes from
// markdown-ish content, cutting on a word boundary.
func Excerpt(content string, maxLen int) string {
	text := markdownSyntax.ReplaceAllString(content, "")
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	const ellipsis = "…"
	cut := []rune(text)[:maxLen-1]
	s := string(cut)
	if i := strings.LastIndexByte(s, ' '); i > len(s)/2 {
		s = s[:i]
	}
	return strings.TrimRight(s, " .,;:") + ellipsis
}

// SanitizeFilename keeps the base name of a client-supplied file name and
// replaces anything outside [a-zA-Z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChar.ReplaceAllString(foldASCII(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}
