package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkSelector matches elements whose attributes carry a video link.
const linkSelector = "a[href], iframe[src], embed[src], source[src]"

// ScanHTML returns the embeddable links of an HTML fragment. Attribute links
// (anchors, iframes, embeds) come first, followed by links in the visible text.
func (s *Scanner) ScanHTML(r io.Reader) ([]Match, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var candidates []string
	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"href", "src"} {
			if value, ok := sel.Attr(attr); ok {
				if value = normalizeText(value); value != "" {
					candidates = append(candidates, value)
				}
			}
		}
	})

	doc.Find("script, style").Remove()
	candidates = append(candidates, s.Tokens(doc.Text())...)

	return s.match(candidates), nil
}

// IsHTML reports whether a media type names an HTML document.
func IsHTML(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/html")
}
