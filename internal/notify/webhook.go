package notify

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Payload is the JSON body posted by Webhook.
type Payload struct {
	RunID     string           `json:"run_id"`
	Status    string           `json:"status"`
	Subject   string           `json:"subject"`
	Summary   string           `json:"summary"`
	Report    *model.RunReport `json:"report"`
	Log       string           `json:"log,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Webhook posts the run outcome as JSON.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier posting to url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Notify(ctx context.Context, report *model.RunReport, log string) error {
	payload, err := sonic.Marshal(Payload{
		RunID:     report.ID,
		Status:    status(report),
		Subject:   Subject(report),
		Summary:   report.Summary(),
		Report:    report,
		Log:       log,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return eris.Wrap(err, "notify: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "notify: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	zap.L().Info("notify: webhook sent",
		zap.String("run_id", report.ID),
		zap.String("status", status(report)),
	)
	return nil
}
