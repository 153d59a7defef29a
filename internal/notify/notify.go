// Package notify delivers the outcome of an import run.
package notify

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/config"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Notifier sends a run report together with the run's textual log.
type Notifier interface {
	Notify(ctx context.Context, report *model.RunReport, log string) error
}

// New builds the notifier selected by cfg.Kind.
func New(cfg config.NotifyConfig) (Notifier, error) {
	var n Notifier
	switch cfg.Kind {
	case "", "none":
		return Nop{}, nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, eris.New("notify: webhook kind requires webhook_url")
		}
		n = NewWebhook(cfg.WebhookURL)
	case "file":
		if cfg.Dir == "" {
			return nil, eris.New("notify: file kind requires dir")
		}
		n = NewFileNotifier(cfg.Dir)
	default:
		return nil, eris.Errorf("notify: unknown kind %q", cfg.Kind)
	}
	if cfg.OnlyOnError {
		n = OnlyOnError{Next: n}
	}
	return n, nil
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, *model.RunReport, string) error { return nil }

// OnlyOnError forwards reports of failed or cancelled runs.
type OnlyOnError struct {
	Next Notifier
}

func (o OnlyOnError) Notify(ctx context.Context, report *model.RunReport, log string) error {
	if !report.HasErrors() {
		return nil
	}
	return o.Next.Notify(ctx, report, log)
}

// Subject is the one-line headline of a run.
func Subject(report *model.RunReport) string {
	if report.HasErrors() {
		return fmt.Sprintf("Fuel price import %s finished with errors", report.ID)
	}
	return fmt.Sprintf("Fuel price import %s finished successfully", report.ID)
}

func status(report *model.RunReport) string {
	if report.HasErrors() {
		return "failure"
	}
	return "success"
}
