package smtp

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"net/textproto"
	"time"

	"github.com/jordan-wright/email"
	"orderflow/internal/entities"
	retrierconfig "orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

//go:embed templates/*.html
var templatesFS embed.FS

var ErrUnknownTemplate = errors.New("unknown mail template")

const (
	initialInterval = 500 * time.Millisecond
	maxInterval     = 5 * time.Second
	maxElapsedTime  = 20 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
	maxRetries      = 3
)

type Config struct {
	SenderAddress string
	SenderName    string
}

// Gateway renders notification templates and sends them over SMTP.
type Gateway struct {
	mailer    mailer
	retrier   retrier
	templates *template.Template
	from      string
}

func New(mailer mailer, cfg Config) (*Gateway, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		MaxRetries:      maxRetries,
		ShouldRetry:     isRetryable,
	}

	from := (&mail.Address{Name: cfg.SenderName, Address: cfg.SenderAddress}).String()

	return &Gateway{
		mailer:    mailer,
		retrier:   backoff_adapter.New(retryConfig),
		templates: templates,
		from:      from,
	}, nil
}

func (g *Gateway) Send(ctx context.Context, n entities.Notification) error {
	body, err := g.render(n)
	if err != nil {
		return fmt.Errorf("gateway smtp, %s: %w", n.Kind, err)
	}

	e := email.NewEmail()
	e.From = g.from
	e.To = []string{n.Recipient}
	e.Subject = n.Subject
	e.HTML = body
	e.Headers.Set("X-Order-ID", n.OrderID)

	var attempt uint64
	start := time.Now()

	err = g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return g.mailer.Send(ctx, e)
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	SendDuration.WithLabelValues(n.Template, outcome).Observe(time.Since(start).Seconds())
	if attempt > 1 {
		SendRetriesTotal.WithLabelValues(n.Template).Inc()
	}

	if err != nil {
		return fmt.Errorf("gateway smtp, send %s to %s: %w", n.Kind, n.Recipient, err)
	}
	return nil
}

func (g *Gateway) render(n entities.Notification) ([]byte, error) {
	tmpl := g.templates.Lookup(n.Template + ".html")
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, n.Template)
	}

	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	data["subject"] = n.Subject

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", n.Template, err)
	}
	return buf.Bytes(), nil
}

// isRetryable treats 5xx SMTP replies as permanent, 4xx and connection errors as transient.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code < 500
	}
	return true
}
