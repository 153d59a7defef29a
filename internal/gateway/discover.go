package gateway

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// linkPattern matches document links on the listing pages. Uploaded file
// names carry junk such as " (2)" or "=1" before the extension.
var linkPattern = regexp.MustCompile(
	`\./files/deltia/([A-Z_]+)_(\d{1,2})_(\d{2})_(\d{4})[ =.?\-()\d]*\.(?:pdf|doc)$`)

// Link is a document reference found on a listing page.
type Link struct {
	Prefix string
	Date   time.Time
	Href   string
}

// ParseLink parses a listing href. ok is false for unrelated links.
func ParseLink(href string) (Link, bool) {
	m := linkPattern.FindStringSubmatch(href)
	if m == nil {
		return Link{}, false
	}
	day, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	year, _ := strconv.Atoi(m[4])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Link{}, false
	}
	date := model.Day(year, time.Month(month), day)
	if date.Day() != day {
		return Link{}, false
	}
	return Link{Prefix: m[1], Date: date, Href: href}, true
}

// Discover reads the listing page of kind and returns absolute document URLs
// keyed by date. Links of other kinds and .doc files are ignored; the first
// link for a date wins.
func (g *Gateway) Discover(ctx context.Context, kind model.ReportKind) (map[time.Time]string, error) {
	page := kind.PageURL(g.opts.BaseURL)
	base, err := url.Parse(page)
	if err != nil {
		return nil, eris.Wrapf(err, "discover: parse %s", page)
	}

	hrefs, err := g.fetcher.ListLinks(ctx, page)
	if err != nil {
		return nil, eris.Wrapf(err, "discover %s", kind)
	}

	out := make(map[time.Time]string)
	for _, href := range hrefs {
		link, ok := ParseLink(href)
		if !ok || link.Prefix != kind.Prefix() || !isPDF(href) {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		if _, dup := out[link.Date]; !dup {
			out[link.Date] = base.ResolveReference(ref).String()
		}
	}
	return out, nil
}

func isPDF(href string) bool {
	return len(href) > 4 && href[len(href)-4:] == ".pdf"
}
