package grpchealth

import (
	"context"
	"sort"
	"time"

	"orderflow/pkg/logger"
)

// Check returns nil while the dependency is usable.
type Check func(ctx context.Context) error

// Probe is a background task that reflects dependency checks in the health status.
type Probe struct {
	log      handlerLogger
	setter   statusSetter
	service  string
	interval time.Duration
	checks   map[string]Check
	names    []string
}

func NewProbe(log handlerLogger, setter statusSetter, service string, interval time.Duration, checks map[string]Check) *Probe {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Probe{
		log:      log.With(logger.NewField("health_service", service)),
		setter:   setter,
		service:  service,
		interval: interval,
		checks:   checks,
		names:    names,
	}
}

func (p *Probe) TTL() time.Duration {
	return p.interval
}

// Do never fails: an unhealthy dependency is reported through the status, not the task.
func (p *Probe) Do(ctx context.Context) error {
	serving := true
	for _, name := range p.names {
		if err := p.checks[name](ctx); err != nil {
			serving = false
			p.log.With(
				logger.NewField("dependency", name),
				logger.NewField("error", err),
			).Warn("health check failed")
		}
	}

	p.setter.SetServing(p.service, serving)
	return nil
}

func (p *Probe) Info() string {
	return "grpc health probe"
}
