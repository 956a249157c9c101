//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=grpchealth_test
package grpchealth

import (
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type statusSetter interface {
	SetServing(service string, serving bool)
}
