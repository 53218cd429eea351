package verify

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DefaultLinkClass marks the confirmation button in GitHub's verification mail.
const DefaultLinkClass = "cta-button"

// ExtractLink returns the href of the first <a> carrying class in body.
func ExtractLink(body, class string) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if href, ok := findLink(doc, class); ok {
		return href, nil
	}
	return "", fmt.Errorf("no link with class %q", class)
}

func findLink(n *html.Node, class string) (string, bool) {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") && hasClass(n, class) {
		if href := attr(n, "href"); href != "" {
			return href, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href, ok := findLink(c, class); ok {
			return href, true
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
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
