package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/cache"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

var clearCacheTypes []string

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete cached bulletin documents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kinds, err := parseReportKinds(clearCacheTypes)
		if err != nil {
			return err
		}
		c := cache.NewFileCache(cfg.Cache.Dir)
		for _, k := range kinds {
			if err := c.Clear(k); err != nil {
				return err
			}
			zap.L().Info("cache cleared", zap.String("kind", string(k)))
		}
		return nil
	},
}

// parseReportKinds resolves names to report kinds; empty means all.
func parseReportKinds(names []string) ([]model.ReportKind, error) {
	if len(names) == 0 {
		return model.ReportKinds, nil
	}
	out := make([]model.ReportKind, 0, len(names))
	for _, n := range names {
		k, err := model.ParseReportKind(n)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func init() {
	clearCacheCmd.Flags().StringSliceVar(&clearCacheTypes, "types", nil, "report kinds to clear (default all)")
	rootCmd.AddCommand(clearCacheCmd)
}
