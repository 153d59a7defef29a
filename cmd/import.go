package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/config"
	"github.com/sells-group/fuelprices-cli/internal/importer"
	"github.com/sells-group/fuelprices-cli/internal/model"
	"github.com/sells-group/fuelprices-cli/internal/notify"
	"github.com/sells-group/fuelprices-cli/internal/ocr"
)

var (
	importTypes       []string
	importStartDate   string
	importEndDate     string
	importSkipCache   bool
	importUpdate      bool
	importConcurrency int
	importNotify      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch, parse and store fuel price bulletins",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		kinds, err := parseRecordKinds(importTypes)
		if err != nil {
			return err
		}
		opts := importer.Options{
			Kinds:       kinds,
			Update:      importUpdate,
			Force:       importSkipCache,
			Concurrency: importConcurrency,
		}
		if opts.Concurrency == 0 {
			opts.Concurrency = cfg.Fetch.Concurrency
		}
		if importStartDate != "" {
			if opts.Start, err = model.ParseDate(importStartDate); err != nil {
				return err
			}
		}
		if importEndDate != "" {
			if opts.End, err = model.ParseDate(importEndDate); err != nil {
				return err
			}
		}

		// The textual log goes to the notifier with the report.
		var logBuf bytes.Buffer
		restore, err := config.TeeLogger(&logBuf, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer restore()

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		ext, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}
		parsers, err := initParsers(cfg.Match)
		if err != nil {
			return err
		}
		notifier, err := notify.New(cfg.Notify)
		if err != nil {
			return err
		}
		if !importNotify {
			notifier = notify.Nop{}
		}

		imp := importer.New(initGateway(cfg), ext, parsers, st)
		report, runErr := imp.Run(ctx, opts)
		fmt.Fprint(cmd.OutOrStdout(), report.Summary())

		// Record the outcome even when the run was interrupted.
		bg := context.WithoutCancel(ctx)
		if err := st.SaveRun(bg, report); err != nil {
			zap.L().Error("save run report", zap.Error(err))
		}
		if err := notifier.Notify(bg, report, logBuf.String()); err != nil {
			zap.L().Error("send notification", zap.Error(err))
		}

		if runErr != nil {
			return eris.Wrap(runErr, "import")
		}
		if report.HasErrors() {
			return eris.Errorf("import finished with %d failed dates", len(report.Failures))
		}
		return nil
	},
}

// parseRecordKinds accepts record kind names ("daily_country") and report
// kind names ("weekly"), the latter expanding to their record kinds.
func parseRecordKinds(names []string) ([]model.RecordKind, error) {
	var out []model.RecordKind
	seen := make(map[model.RecordKind]bool)
	add := func(k model.RecordKind) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		if rk, err := model.ParseReportKind(name); err == nil {
			for _, k := range rk.RecordKinds() {
				add(k)
			}
			continue
		}
		k, err := model.ParseRecordKind(name)
		if err != nil {
			return nil, eris.Errorf("unknown type %q", name)
		}
		add(k)
	}
	return out, nil
}

func init() {
	importCmd.Flags().StringSliceVar(&importTypes, "types", nil, "record or report kinds to import (default all)")
	importCmd.Flags().StringVar(&importStartDate, "start-date", "", "first date to import, YYYY-MM-DD (default: latest stored date)")
	importCmd.Flags().StringVar(&importEndDate, "end-date", "", "last date to import, YYYY-MM-DD (default: today)")
	importCmd.Flags().BoolVar(&importSkipCache, "skip-cache", false, "download documents even when cached")
	importCmd.Flags().BoolVar(&importUpdate, "update", false, "re-import dates that are already stored")
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 0, "parallel downloads (default from config)")
	importCmd.Flags().BoolVar(&importNotify, "notify", true, "send the run report through the configured notifier")
	rootCmd.AddCommand(importCmd)
}
