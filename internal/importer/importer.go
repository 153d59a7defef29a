// Package importer drives ingestion: it plans the dates to import per record
// kind, downloads and extracts documents concurrently, then parses and stores
// them one date at a time.
package importer

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/fuelprices-cli/internal/gateway"
	"github.com/sells-group/fuelprices-cli/internal/model"
	"github.com/sells-group/fuelprices-cli/internal/ocr"
	"github.com/sells-group/fuelprices-cli/internal/store"
)

// DefaultConcurrency is the fetch pool size when Options leaves it unset.
const DefaultConcurrency = 4

// Documents resolves a (report kind, date) to the raw document bytes.
// *gateway.Gateway implements it.
type Documents interface {
	Get(ctx context.Context, kind model.ReportKind, date time.Time, force bool) ([]byte, error)
}

// Parser turns extracted text into records. *parser.Set implements it.
type Parser interface {
	Parse(kind model.ReportKind, text string, date time.Time) (model.Records, error)
}

// Options selects what a run imports.
type Options struct {
	// Kinds restricts the run to these record kinds. Empty means all.
	Kinds []model.RecordKind
	// Start overrides the per-kind resume date when non-zero.
	Start time.Time
	// End defaults to today.
	End time.Time
	// Update re-imports dates that are already stored.
	Update bool
	// Force bypasses the document cache.
	Force bool
	// Concurrency bounds parallel downloads and extractions.
	Concurrency int
}

// Importer runs imports. It is safe to reuse across runs but not to run
// concurrently with itself.
type Importer struct {
	docs    Documents
	ocr     ocr.Extractor
	parsers Parser
	sink    store.Sink
	now     func() time.Time
}

// New creates an importer.
func New(docs Documents, ext ocr.Extractor, parsers Parser, sink store.Sink) *Importer {
	return &Importer{
		docs:    docs,
		ocr:     ext,
		parsers: parsers,
		sink:    sink,
		now:     time.Now,
	}
}

// job is one document to fetch and the record kinds it must refresh.
type job struct {
	date  time.Time
	kinds []model.RecordKind
}

// fetched is the outcome of downloading and extracting one job.
type fetched struct {
	text  string
	stage model.Stage
	err   error
}

// Run imports every selected record kind and returns the run report. Errors
// scoped to one date are recorded in the report; only invalid options,
// storage errors while planning and cancellation are returned.
func (im *Importer) Run(ctx context.Context, opts Options) (*model.RunReport, error) {
	log := zap.L().With(zap.String("component", "importer"))
	report := model.NewRunReport(uuid.NewString(), im.now().UTC())
	defer func() { report.FinishedAt = im.now().UTC() }()

	kinds, err := selectKinds(opts.Kinds)
	if err != nil {
		return report, err
	}
	end := opts.End
	if end.IsZero() {
		end = im.now()
	}
	end = model.DateOf(end)
	if !opts.Start.IsZero() && model.DateOf(opts.Start).After(end) {
		return report, eris.Errorf("importer: start %s is after end %s",
			opts.Start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	for _, k := range kinds {
		report.Counts[k] = model.KindCounts{}
	}

	for _, rk := range model.ReportKinds {
		var members []model.RecordKind
		for _, k := range kinds {
			if k.Report() == rk {
				members = append(members, k)
			}
		}
		if len(members) == 0 {
			continue
		}

		jobs, err := im.plan(ctx, report, rk, members, opts, end)
		if err != nil {
			report.Cancelled = ctx.Err() != nil
			return report, err
		}
		log.Info("importing",
			zap.String("kind", string(rk)),
			zap.Int("dates", len(jobs)),
			zap.Time("end", end),
		)
		if err := im.runKind(ctx, report, rk, jobs, opts); err != nil {
			report.Cancelled = true
			return report, err
		}
	}

	t := report.Totals()
	log.Info("import run complete",
		zap.String("run_id", report.ID),
		zap.Int("processed", t.Processed),
		zap.Int("skipped", t.Skipped),
		zap.Int("no_data", t.NoData),
		zap.Int("failed", t.Failed),
	)
	return report, nil
}

func selectKinds(requested []model.RecordKind) ([]model.RecordKind, error) {
	if len(requested) == 0 {
		return model.RecordKinds, nil
	}
	var out []model.RecordKind
	for _, k := range model.RecordKinds {
		if slices.Contains(requested, k) {
			out = append(out, k)
		}
	}
	for _, k := range requested {
		if !k.Valid() {
			return nil, eris.Errorf("importer: unknown record kind %q", k)
		}
	}
	return out, nil
}

// startDate is the explicit start, else the latest stored date, else the
// earliest date the source has data for.
func (im *Importer) startDate(ctx context.Context, kind model.RecordKind, opts Options) (time.Time, error) {
	if !opts.Start.IsZero() {
		return model.DateOf(opts.Start), nil
	}
	_, last, ok, err := im.sink.DateRange(ctx, kind)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "importer: date range for %s", kind)
	}
	if ok {
		return last, nil
	}
	return kind.MinDate(), nil
}

// plan lists the dates of rk that still need work and counts the rest as
// skipped.
func (im *Importer) plan(ctx context.Context, report *model.RunReport, rk model.ReportKind,
	members []model.RecordKind, opts Options, end time.Time) ([]job, error) {
	starts := make(map[model.RecordKind]time.Time, len(members))
	var first time.Time
	for _, k := range members {
		s, err := im.startDate(ctx, k, opts)
		if err != nil {
			return nil, err
		}
		starts[k] = s
		if first.IsZero() || s.Before(first) {
			first = s
		}
	}

	var jobs []job
	for _, date := range rk.Dates(first, end) {
		j := job{date: date}
		for _, k := range members {
			if date.Before(starts[k]) {
				continue
			}
			if !opts.Update {
				ok, err := im.sink.Exists(ctx, k, date)
				if err != nil {
					return nil, eris.Wrapf(err, "importer: check %s %s", k, date.Format(model.DateLayout))
				}
				if ok {
					tally(report, k, func(c *model.KindCounts) { c.Skipped++ })
					continue
				}
			}
			j.kinds = append(j.kinds, k)
		}
		if len(j.kinds) > 0 {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

// runKind fetches jobs through a bounded pool and stores them in date order.
func (im *Importer) runKind(ctx context.Context, report *model.RunReport, rk model.ReportKind, jobs []job, opts Options) error {
	if len(jobs) == 0 {
		return nil
	}
	results := make([]fetched, len(jobs))
	ready := make([]chan struct{}, len(jobs))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		for i := range jobs {
			if gctx.Err() != nil {
				return
			}
			g.Go(func() error {
				defer close(ready[i])
				results[i] = im.fetch(gctx, rk, jobs[i].date, opts.Force)
				return nil
			})
		}
	}()
	defer func() {
		<-scheduled
		_ = g.Wait()
	}()

	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "importer: cancelled")
		}
		select {
		case <-ready[i]:
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "importer: cancelled")
		}
		im.apply(ctx, report, rk, j, results[i])
	}
	return nil
}

// fetch downloads and extracts one document. It never fails the pool.
func (im *Importer) fetch(ctx context.Context, rk model.ReportKind, date time.Time, force bool) fetched {
	data, err := im.docs.Get(ctx, rk, date, force)
	if err != nil {
		return fetched{stage: model.StageFetch, err: err}
	}
	text, err := im.ocr.ExtractText(ctx, data)
	if err != nil {
		return fetched{stage: model.StageExtract, err: err}
	}
	return fetched{text: text}
}

// apply parses one fetched document and replaces its records.
func (im *Importer) apply(ctx context.Context, report *model.RunReport, rk model.ReportKind, j job, res fetched) {
	log := zap.L().With(
		zap.String("component", "importer"),
		zap.String("kind", string(rk)),
		zap.String("date", j.date.Format(model.DateLayout)),
	)

	if errors.Is(res.err, gateway.ErrNoData) {
		log.Info("no document published")
		for _, k := range j.kinds {
			tally(report, k, func(c *model.KindCounts) { c.NoData++ })
		}
		return
	}
	if res.err != nil {
		im.fail(report, log, j.kinds, j.date, res.stage, res.err)
		return
	}

	recs, err := im.parsers.Parse(rk, res.text, j.date)
	if err != nil {
		im.fail(report, log, j.kinds, j.date, model.StageParse, err)
		return
	}

	for _, k := range j.kinds {
		rows := recs[k]
		if err := im.sink.Replace(ctx, k, j.date, rows); err != nil {
			im.fail(report, log, []model.RecordKind{k}, j.date, model.StageStore, err)
			continue
		}
		tally(report, k, func(c *model.KindCounts) {
			c.Processed++
			c.Records += len(rows)
		})
		log.Debug("stored", zap.String("record_kind", string(k)), zap.Int("records", len(rows)))
	}
}

func (im *Importer) fail(report *model.RunReport, log *zap.Logger, kinds []model.RecordKind, date time.Time, stage model.Stage, err error) {
	log.Error("import failed", zap.String("stage", string(stage)), zap.Error(err))
	for _, k := range kinds {
		tally(report, k, func(c *model.KindCounts) { c.Failed++ })
		report.Failures = append(report.Failures, model.DateFailure{
			Kind:   k,
			Date:   date,
			Stage:  stage,
			Reason: err.Error(),
		})
	}
}

func tally(report *model.RunReport, kind model.RecordKind, f func(*model.KindCounts)) {
	c := report.Counts[kind]
	f(&c)
	report.Counts[kind] = c
}
