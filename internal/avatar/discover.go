package avatar

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// avatarClass marks the container element whose inline style carries
// the avatar image on profile pages.
const avatarClass = "avatar"

var backgroundImagePattern = regexp.MustCompile(`background-image:\s*url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// DiscoverAvatarURL scans profile-page markup for an avatar image
// reference: a CSS background-image url inside an element classed
// "avatar". The markup format is an external dependency with no
// stability guarantee, which is why discovery is isolated here.
func DiscoverAvatarURL(r io.Reader) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}
	return findAvatar(doc)
}

func findAvatar(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && hasClass(n, avatarClass) {
		if u := styleImageURL(attr(n, "style")); u != "" {
			return u, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if u, ok := findAvatar(c); ok {
			return u, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func styleImageURL(style string) string {
	m := backgroundImagePattern.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ResolveAvatarURL normalizes a discovered avatar reference to an
// absolute URL. Protocol-relative references get https; relative paths
// resolve against the profile page URL.
func ResolveAvatarURL(raw, pageURL string) (string, error) {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw, nil
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return raw, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
