package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// ListLinks fetches pageURL and returns the href of every anchor in document
// order.
func (f *HTTPFetcher) ListLinks(ctx context.Context, pageURL string) ([]string, error) {
	resp, err := f.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("list links: unexpected status %d from %s", resp.StatusCode, pageURL)
	}
	return ParseLinks(resp.Body)
}

// ParseLinks extracts anchor hrefs from an HTML document.
func ParseLinks(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "list links: parse html")
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			if href = strings.TrimSpace(href); href != "" {
				links = append(links, href)
			}
		}
	})
	return links, nil
}
