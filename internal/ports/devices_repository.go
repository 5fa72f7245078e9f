package ports

import (
	"context"

	"github.com/architeacher/loaner/internal/domain/model"
)

type (
	Fetcher interface {
		// FetchByID retrieves a device by its ID.
		FetchByID(ctx context.Context, id model.DeviceID) (*model.Device, error)

		// FetchBySerialNumber retrieves a device by its hardware serial number.
		FetchBySerialNumber(ctx context.Context, serialNumber string) (*model.Device, error)
	}

	Updater interface {
		// Update persists the mutable fields of an existing device.
		Update(ctx context.Context, device *model.Device) error
	}

	EventRecorder interface {
		// RecordEvent appends an audit entry for a device.
		RecordEvent(ctx context.Context, event model.DeviceEvent) error
	}

	Locker interface {
		// LockDevice persists a locked device together with its audit event
		// as a single unit of work.
		LockDevice(ctx context.Context, device *model.Device, event model.DeviceEvent) error
	}

	// DeviceRepository defines the device persistence operations.
	DeviceRepository interface {
		Fetcher
		Updater
		EventRecorder
		Locker
	}
)
