package views

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// hexColor matches the #rrggbb form a color input can hold.
var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// cssColor returns c when it is a hex color and fallback otherwise, so that
// nothing but a color ever lands inside a style attribute.
func cssColor(c, fallback string) string {
	if hexColor.MatchString(c) {
		return c
	}
	return fallback
}

// safeImageSrc accepts relative paths, http(s) URLs and embedded image data
// URIs. Anything else yields "".
func safeImageSrc(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "data:image/") {
		return val
	}
	if strings.HasPrefix(val, "/") && !strings.HasPrefix(val, "//") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return val
	}
	return ""
}

// Initials returns up to two upper-case initials of s, used in place of a
// missing logo.
func Initials(s string) string {
	var out []rune
	for _, word := range strings.Fields(s) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// nonEmpty drops blank entries while keeping the order.
func nonEmpty(vals ...contactLine) []contactLine {
	var out []contactLine
	for _, v := range vals {
		if strings.TrimSpace(v.value) != "" {
			out = append(out, v)
		}
	}
	return out
}

// UpperHex formats a color the way the editor readout shows it.
func UpperHex(c string) string {
	return strings.ToUpper(c)
}

// csrfHeaders is the hx-headers value that makes htmx send the CSRF token
// with every request.
func csrfHeaders(token string) string {
	b, _ := json.Marshal(map[string]string{"X-CSRF-Token": token})
	return string(b)
}

func pageTitle(title string) string {
	if title == "" {
		return "Vizitka Majster"
	}
	return title
}
