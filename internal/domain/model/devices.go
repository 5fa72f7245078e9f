package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventDeviceLock = "device_lock"

	lockEventMessage = "Locking device."
)

type DeviceID struct {
	uuid.UUID
}

func NewDeviceID() DeviceID {
	return DeviceID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseDeviceID(s string) (DeviceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DeviceID{}, fmt.Errorf("%w: %v", ErrInvalidDeviceID, err)
	}

	return DeviceID{UUID: id}, nil
}

func (d DeviceID) String() string {
	return d.UUID.String()
}

func (d DeviceID) IsZero() bool {
	return d.UUID == uuid.Nil
}

// Device is a loaner device enrolled in the program.
type Device struct {
	ID           DeviceID
	SerialNumber string
	AssetTag     string
	DeviceModel  string
	AssignedUser string
	Enrolled     bool
	Locked       bool
	LockedBy     string
	LockedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewDevice(serialNumber, assetTag, deviceModel string) *Device {
	now := time.Now().UTC()

	return &Device{
		ID:           NewDeviceID(),
		SerialNumber: serialNumber,
		AssetTag:     assetTag,
		DeviceModel:  deviceModel,
		Enrolled:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Lock marks the device locked on behalf of actor. Locking a locked
// device refreshes the attribution.
func (d *Device) Lock(actor string) error {
	if actor == "" {
		return ErrMissingActor
	}

	now := time.Now().UTC()

	d.Locked = true
	d.LockedBy = actor
	d.LockedAt = &now
	d.UpdatedAt = now

	return nil
}

// DeviceEvent is an audit record of an operation performed on a device.
type DeviceEvent struct {
	ID        uuid.UUID
	DeviceID  DeviceID
	Action    string
	Actor     string
	Message   string
	CreatedAt time.Time
}

func NewLockEvent(device *Device) DeviceEvent {
	return DeviceEvent{
		ID:        uuid.Must(uuid.NewV7()),
		DeviceID:  device.ID,
		Action:    EventDeviceLock,
		Actor:     device.LockedBy,
		Message:   lockEventMessage,
		CreatedAt: device.UpdatedAt,
	}
}

// DeviceLookup identifies a device by ID or, failing that, by serial number.
type DeviceLookup struct {
	ID           string
	SerialNumber string
}

func (l DeviceLookup) IsEmpty() bool {
	return l.ID == "" && l.SerialNumber == ""
}
