package commands

import (
	"context"

	"github.com/architeacher/loaner/internal/ports"
	"github.com/architeacher/loaner/pkg/decorator"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	LockDeviceCommand struct {
		Device ports.LockableDevice
		Actor  string
	}

	LockDeviceCommandHandler = decorator.CommandHandler[LockDeviceCommand, struct{}]

	lockDeviceCommandHandler struct{}
)

func NewLockDeviceCommandHandler(
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) LockDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[LockDeviceCommand, struct{}](
		lockDeviceCommandHandler{},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h lockDeviceCommandHandler) Handle(ctx context.Context, cmd LockDeviceCommand) (struct{}, error) {
	return struct{}{}, cmd.Device.Lock(ctx, cmd.Actor)
}
