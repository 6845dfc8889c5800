package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JaimeStill/claimflow/pkg/formatting"
)

// Webhook posts a Slack-compatible block message to an incoming webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a Webhook channel. An empty url makes every Send a skip.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type   string       `json:"type"`
	Text   *textObject  `json:"text,omitempty"`
	Fields []textObject `json:"fields,omitempty"`
}

type webhookMessage struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks"`
}

func newWebhookMessage(s Summary) webhookMessage {
	field := func(label, value string) textObject {
		return textObject{Type: "mrkdwn", Text: fmt.Sprintf("*%s:*\n%s", label, value)}
	}

	fields := []textObject{
		field("Policy ID", s.PolicyID),
		field("Status", formatting.Title(string(s.Status))),
		field("Damage Type", formatting.Title(s.DamageType)),
		field("Payout", formatting.FormatUSD(s.PayoutAmount)),
	}
	if s.DocumentURL != "" {
		fields = append(fields, field("Offer Letter", "<"+s.DocumentURL+"|Download PDF>"))
	}

	return webhookMessage{
		Text: "New Claim Processed: " + s.ClaimID.String(),
		Blocks: []block{
			{Type: "header", Text: &textObject{Type: "plain_text", Text: "Claim " + s.ClaimID.String() + " Processed"}},
			{Type: "section", Fields: fields},
		},
	}
}

func (w *Webhook) Send(ctx context.Context, s Summary, _ string) error {
	if w.url == "" {
		return fmt.Errorf("%w: webhook url not configured", ErrSkipped)
	}

	body, err := json.Marshal(newWebhookMessage(s))
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}
