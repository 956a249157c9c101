//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_payment_status_patch_test
package order_payment_status_patch

import (
	"context"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	VerifyPayment(ctx context.Context, requester entities.Requester, verification entities.PaymentVerification) (*entities.Order, error)
}
