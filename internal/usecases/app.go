package usecases

import (
	"fmt"

	"github.com/architeacher/loaner/internal/usecases/actions"
	"github.com/architeacher/loaner/internal/usecases/commands"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		LockDevice commands.LockDeviceCommandHandler
	}

	Application struct {
		Commands Commands
		Actions  *actions.Registry
	}
)

func NewApplication(
	adminUsername string,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) (*Application, error) {
	cmds := Commands{
		LockDevice: commands.NewLockDeviceCommandHandler(log, metricsClient, tracerProvider),
	}

	registry, err := actions.NewRegistry(
		actions.NewLockDeviceAction(cmds.LockDevice, adminUsername),
	)
	if err != nil {
		return nil, fmt.Errorf("registering actions: %w", err)
	}

	return &Application{
		Commands: cmds,
		Actions:  registry,
	}, nil
}
