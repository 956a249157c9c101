package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
	"orderflow/internal/pkg/config"
)

const defaultSendTimeout = 30 * time.Second

// Mailer keeps a small pool of SMTP connections shared by the delivery workers.
type Mailer struct {
	pool *email.Pool
}

func NewMailer(cfg config.SMTP, connections int) (*Mailer, error) {
	if connections <= 0 {
		connections = 1
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	pool, err := email.NewPool(addr, connections, auth)
	if err != nil {
		return nil, fmt.Errorf("smtp pool %s: %w", addr, err)
	}

	return &Mailer{pool: pool}, nil
}

// Send uses the time left on ctx as the pool timeout.
func (m *Mailer) Send(ctx context.Context, e *email.Email) error {
	timeout := defaultSendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	return m.pool.Send(e, timeout)
}

func (m *Mailer) Close() {
	m.pool.Close()
}
