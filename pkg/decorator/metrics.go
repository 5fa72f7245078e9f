package decorator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/architeacher/loaner/pkg/metrics"
)

type commandMetricsDecorator[C Command, R any] struct {
	base   CommandHandler[C, R]
	client metrics.Client
}

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	start := time.Now()

	actionName := strings.ToLower(generateActionName(cmd))

	defer func() {
		if d.client == nil {
			return
		}

		d.client.Observe(ctx, fmt.Sprintf("commands.%s.duration", actionName), time.Since(start).Seconds())

		if err == nil {
			d.client.Inc(ctx, fmt.Sprintf("commands.%s.success", actionName), 1)
		} else {
			d.client.Inc(ctx, fmt.Sprintf("commands.%s.failure", actionName), 1)
		}
	}()

	return d.base.Handle(ctx, cmd)
}
