package ports

import (
	"context"

	"github.com/architeacher/loaner/internal/domain/model"
)

type (
	// LockableDevice is the lock capability of a managed device. Whatever
	// persistence or notification a lock entails belongs to the implementation.
	LockableDevice interface {
		Lock(ctx context.Context, actor string) error
	}

	// DevicesService resolves stored devices into handles actions can operate on.
	DevicesService interface {
		ResolveDevice(ctx context.Context, lookup model.DeviceLookup) (LockableDevice, error)
	}
)
