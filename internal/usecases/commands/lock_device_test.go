package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/architeacher/loaner/internal/infrastructure"
	"github.com/architeacher/loaner/internal/usecases/commands"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics/noop"
	"github.com/stretchr/testify/require"
)

type stubDevice struct {
	lockFn func(ctx context.Context, actor string) error
	actors []string
}

func (d *stubDevice) Lock(ctx context.Context, actor string) error {
	d.actors = append(d.actors, actor)

	if d.lockFn != nil {
		return d.lockFn(ctx, actor)
	}

	return nil
}

func TestLockDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	tp := infrastructure.NewNoopTracerProvider()
	mc := noop.NewMetricsClient()

	errLock := errors.New("directory API unavailable")

	cases := []struct {
		name        string
		lockErr     error
		expectedErr error
	}{
		{
			name: "locks the device with the command actor",
		},
		{
			name:        "returns the lock error unchanged",
			lockErr:     errLock,
			expectedErr: errLock,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			device := &stubDevice{}
			if tc.lockErr != nil {
				device.lockFn = func(context.Context, string) error { return tc.lockErr }
			}

			handler := commands.NewLockDeviceCommandHandler(log, mc, tp)

			_, err := handler.Handle(t.Context(), commands.LockDeviceCommand{
				Device: device,
				Actor:  "loaner-admin",
			})

			require.Equal(t, []string{"loaner-admin"}, device.actors)

			if tc.expectedErr != nil {
				require.Same(t, tc.expectedErr, err)

				return
			}

			require.NoError(t, err)
		})
	}
}
