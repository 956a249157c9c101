package retrier

import (
	"context"
	"fmt"

	"orderflow/pkg/logger"
)

type readyLogger interface {
	Info(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// WaitReady calls probe through r until it succeeds, logging every attempt under the target name.
func WaitReady(ctx context.Context, r Retrier, log readyLogger, target string, probe func(context.Context) error) error {
	var attempt uint64
	err := r.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		log.With(
			logger.NewField("target", target),
			logger.NewField("attempt", attempt),
		).Info("waiting for dependency")

		return probe(ctx)
	})
	if err != nil {
		log.With(
			logger.NewField("target", target),
			logger.NewField("attempts", attempt),
			logger.NewField("error", err),
		).Error("dependency unreachable after retries")
		return fmt.Errorf("%s unreachable: %w", target, err)
	}

	log.With(
		logger.NewField("target", target),
		logger.NewField("attempts", attempt),
	).Info("dependency ready")
	return nil
}
