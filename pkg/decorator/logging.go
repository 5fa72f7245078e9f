package decorator

import (
	"context"
	"time"

	"github.com/architeacher/loaner/pkg/logger"
)

type commandLoggingDecorator[C Command, R any] struct {
	base   CommandHandler[C, R]
	logger logger.Logger
}

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	log := d.logger.WithContext(ctx).
		With().
		Str("command", generateActionName(cmd)).
		Logger()

	start := time.Now()

	log.Debug().Msg("executing command")

	defer func() {
		if err != nil {
			log.Error().
				Err(err).
				Dur("duration", time.Since(start)).
				Msg("failed to execute command")

			return
		}

		log.Info().
			Dur("duration", time.Since(start)).
			Msg("command executed successfully")
	}()

	return d.base.Handle(ctx, cmd)
}
