package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/architeacher/loaner/internal/ports"
	"github.com/architeacher/loaner/pkg/circuitbreaker"
	"github.com/architeacher/loaner/pkg/logger"
)

type (
	DevicesService struct {
		repo    ports.DeviceRepository
		breaker *circuitbreaker.Breaker
		logger  logger.Logger
	}

	// DeviceHandle binds a stored device to the service so that locking it
	// also persists the change and its audit event.
	DeviceHandle struct {
		device *model.Device
		svc    *DevicesService
	}
)

// NewDevicesService builds the service. A nil breaker disables circuit breaking.
func NewDevicesService(repo ports.DeviceRepository, breaker *circuitbreaker.Breaker, log logger.Logger) *DevicesService {
	return &DevicesService{
		repo:    repo,
		breaker: breaker,
		logger:  log,
	}
}

func (s *DevicesService) ResolveDevice(ctx context.Context, lookup model.DeviceLookup) (ports.LockableDevice, error) {
	device, err := s.fetch(ctx, lookup)
	if err != nil {
		return nil, err
	}

	return &DeviceHandle{device: device, svc: s}, nil
}

func (s *DevicesService) fetch(ctx context.Context, lookup model.DeviceLookup) (*model.Device, error) {
	switch {
	case lookup.ID != "":
		id, err := model.ParseDeviceID(lookup.ID)
		if err != nil {
			return nil, err
		}

		return s.repo.FetchByID(ctx, id)
	case lookup.SerialNumber != "":
		return s.repo.FetchBySerialNumber(ctx, lookup.SerialNumber)
	default:
		return nil, fmt.Errorf("%w: an ID or serial number is required", model.ErrInvalidDeviceID)
	}
}

func (s *DevicesService) persistLock(ctx context.Context, device *model.Device) error {
	return s.breaker.Do(func() error {
		return s.repo.LockDevice(ctx, device, model.NewLockEvent(device))
	})
}

// IsBusinessOutcome reports errors that describe the data rather than a
// failing database, so they are not counted against the breaker.
func IsBusinessOutcome(err error) bool {
	return errors.Is(err, model.ErrDeviceNotFound)
}

func (h *DeviceHandle) Device() *model.Device {
	return h.device
}

func (h *DeviceHandle) Lock(ctx context.Context, actor string) error {
	locked := *h.device
	if err := locked.Lock(actor); err != nil {
		return err
	}

	if err := h.svc.persistLock(ctx, &locked); err != nil {
		return err
	}

	*h.device = locked

	h.svc.logger.WithContext(ctx).Info().
		Str("device_id", h.device.ID.String()).
		Str("serial_number", h.device.SerialNumber).
		Str("locked_by", actor).
		Msg("device locked")

	return nil
}

func (h *DeviceHandle) String() string {
	return fmt.Sprintf("Device(id=%s, serial_number=%s)", h.device.ID, h.device.SerialNumber)
}
