//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=smtp_test
package smtp

import (
	"context"

	"github.com/jordan-wright/email"
)

type mailer interface {
	Send(ctx context.Context, e *email.Email) error
}

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}
