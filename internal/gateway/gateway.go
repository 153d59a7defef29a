// Package gateway resolves a (report kind, date) pair to the raw bulletin
// bytes, serving from the document cache when possible.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/cache"
	"github.com/sells-group/fuelprices-cli/internal/fetcher"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// ErrNoData means no document was published for the date. It is terminal
// and never retried.
var ErrNoData = eris.New("no document published")

// FetchFailure is a download that failed after retries or returned
// something other than a PDF.
type FetchFailure struct {
	Kind        model.ReportKind
	Date        time.Time
	URL         string
	StatusCode  int
	ContentType string
	Err         error
}

func (e *FetchFailure) Error() string {
	msg := fmt.Sprintf("fetch %s %s", e.Kind, e.Date.Format(model.DateLayout))
	switch {
	case e.Err != nil:
		return msg + ": " + e.Err.Error()
	case e.StatusCode != 0 && e.StatusCode != http.StatusOK:
		return fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	default:
		return fmt.Sprintf("%s: unexpected content type %q", msg, e.ContentType)
	}
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

// Options configures a Gateway.
type Options struct {
	BaseURL string
	// DiscoverLinks resolves document URLs from the listing pages before
	// falling back to the file-name template.
	DiscoverLinks bool
}

// Gateway fetches bulletins through the cache.
type Gateway struct {
	fetcher fetcher.Fetcher
	cache   cache.Cache
	opts    Options

	mu    sync.Mutex
	links map[model.ReportKind]map[time.Time]string
}

// New returns a gateway over f and c.
func New(f fetcher.Fetcher, c cache.Cache, opts Options) *Gateway {
	return &Gateway{
		fetcher: f,
		cache:   c,
		opts:    opts,
		links:   make(map[model.ReportKind]map[time.Time]string),
	}
}

// Get returns the document for kind and date. A cached copy is returned
// unless force is set; freshly downloaded documents are cached.
func (g *Gateway) Get(ctx context.Context, kind model.ReportKind, date time.Time, force bool) ([]byte, error) {
	date = model.DateOf(date)
	if !force {
		data, ok, err := g.cache.Get(kind, date)
		if err != nil {
			zap.L().Warn("gateway: cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		} else if ok {
			return data, nil
		}
	}

	url := g.resolve(ctx, kind, date)
	resp, err := g.fetcher.Get(ctx, url)
	if err != nil {
		return nil, &FetchFailure{Kind: kind, Date: date, URL: url, Err: err}
	}

	switch mt := resp.MediaType(); {
	case resp.StatusCode == http.StatusNotFound, mt == "text/html":
		return nil, eris.Wrapf(ErrNoData, "%s %s", kind, date.Format(model.DateLayout))
	case resp.StatusCode != http.StatusOK:
		return nil, &FetchFailure{Kind: kind, Date: date, URL: url, StatusCode: resp.StatusCode, ContentType: resp.ContentType}
	case mt != "application/pdf" || len(resp.Body) == 0:
		return nil, &FetchFailure{Kind: kind, Date: date, URL: url, StatusCode: resp.StatusCode, ContentType: resp.ContentType}
	}

	if err := g.cache.Put(kind, date, resp.Body); err != nil {
		zap.L().Warn("gateway: cache write failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	zap.L().Debug("gateway: downloaded",
		zap.String("url", url),
		zap.Int("bytes", len(resp.Body)),
	)
	return resp.Body, nil
}

// resolve returns the discovered link for the date when discovery is on,
// else the templated URL.
func (g *Gateway) resolve(ctx context.Context, kind model.ReportKind, date time.Time) string {
	if g.opts.DiscoverLinks {
		if u, ok := g.discovered(ctx, kind)[date]; ok {
			return u
		}
	}
	return kind.URL(g.opts.BaseURL, date)
}

// discovered loads the listing page of kind once per gateway. A failed
// listing is remembered as empty so later dates use the template without
// asking again; a cancelled one is not remembered.
func (g *Gateway) discovered(ctx context.Context, kind model.ReportKind) map[time.Time]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if links, ok := g.links[kind]; ok {
		return links
	}
	links, err := g.Discover(ctx, kind)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		zap.L().Warn("gateway: link discovery failed, using file name template",
			zap.String("kind", string(kind)), zap.Error(err))
		links = map[time.Time]string{}
	}
	g.links[kind] = links
	return links
}
