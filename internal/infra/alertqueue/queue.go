// Package alertqueue delivers maintenance alerts out of the request path.
package alertqueue

import (
	"context"

	"github.com/yanqian/bikeshare/internal/domain/maintenance"
)

// Handler stores or otherwise consumes a batch of alerts.
type Handler func(ctx context.Context, alerts []maintenance.Alert) error

// Queue is a maintenance.Notifier whose consumer can be swapped and stopped.
type Queue interface {
	maintenance.Notifier
	SetHandler(handler Handler)
	Close()
}
