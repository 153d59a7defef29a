package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/fuelprices-cli/internal/model"
	"github.com/sells-group/fuelprices-cli/internal/ocr"
)

var (
	parseKind     string
	parseDate     string
	parseShowText bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf>",
	Short: "Parse one local bulletin and print its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseReportKind(parseKind)
		if err != nil {
			return err
		}
		date, err := model.ParseDate(parseDate)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		ext, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}
		text, err := ext.ExtractText(cmd.Context(), data)
		if err != nil {
			return err
		}
		if parseShowText {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}

		parsers, err := initParsers(cfg.Match)
		if err != nil {
			return err
		}
		recs, err := parsers.Parse(kind, text, date)
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), kind, recs)
	},
}

// printRecords writes recs as indented JSON grouped by record kind.
func printRecords(w io.Writer, kind model.ReportKind, recs model.Records) error {
	out := make(map[string][]model.PriceRecord, len(recs))
	for _, k := range kind.RecordKinds() {
		out[string(k)] = recs[k]
	}
	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal records")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	parseCmd.Flags().StringVar(&parseKind, "kind", "", "report kind: daily_national, daily_regional or weekly")
	parseCmd.Flags().StringVar(&parseDate, "date", "", "publication date, YYYY-MM-DD")
	parseCmd.Flags().BoolVar(&parseShowText, "text", false, "print the extracted text before the records")
	_ = parseCmd.MarkFlagRequired("kind")
	_ = parseCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(parseCmd)
}
