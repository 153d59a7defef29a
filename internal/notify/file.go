package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// FileNotifier writes each notification as a text file into a directory,
// for environments without an outbound channel.
type FileNotifier struct {
	dir string
}

// NewFileNotifier creates a notifier writing into dir.
func NewFileNotifier(dir string) *FileNotifier {
	return &FileNotifier{dir: dir}
}

// Path returns the file a report is written to.
func (f *FileNotifier) Path(report *model.RunReport) string {
	name := report.StartedAt.UTC().Format("20060102-150405") + "-" + report.ID + ".txt"
	return filepath.Join(f.dir, name)
}

func (f *FileNotifier) Notify(_ context.Context, report *model.RunReport, log string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return eris.Wrapf(err, "notify: create %s", f.dir)
	}

	var b strings.Builder
	b.WriteString("Subject: ")
	b.WriteString(Subject(report))
	b.WriteString("\n\n")
	b.WriteString(report.Summary())
	if log != "" {
		b.WriteString("\n")
		b.WriteString(log)
	}

	path := f.Path(report)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "notify: write %s", path)
	}
	zap.L().Info("notify: report written", zap.String("path", path))
	return nil
}
