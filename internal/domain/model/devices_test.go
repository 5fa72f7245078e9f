package model_test

import (
	"testing"
	"time"

	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewDeviceID(t *testing.T) {
	t.Parallel()

	id := model.NewDeviceID()

	require.False(t, id.IsZero())
	require.NotEqual(t, uuid.Nil, id.UUID)
}

func TestParseDeviceID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{
			name:  "valid UUID",
			input: "019426d2-5b1e-7c8a-9f3e-123456789abc",
		},
		{
			name:        "invalid UUID",
			input:       "not-a-uuid",
			expectError: true,
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, err := model.ParseDeviceID(tc.input)

			if tc.expectError {
				require.ErrorIs(t, err, model.ErrInvalidDeviceID)
				require.True(t, id.IsZero())

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.input, id.String())
		})
	}
}

func TestDevice_Lock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		setup       func() *model.Device
		actor       string
		expectedErr error
	}{
		{
			name:  "locks an unlocked device",
			setup: func() *model.Device { return model.NewDevice("SN-1", "A-1", "Chromebook") },
			actor: "loaner-admin",
		},
		{
			name: "relocking refreshes the attribution",
			setup: func() *model.Device {
				device := model.NewDevice("SN-2", "A-2", "Chromebook")
				require.NoError(t, device.Lock("previous-admin"))

				return device
			},
			actor: "loaner-admin",
		},
		{
			name:        "empty actor is rejected",
			setup:       func() *model.Device { return model.NewDevice("SN-3", "A-3", "Chromebook") },
			actor:       "",
			expectedErr: model.ErrMissingActor,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			device := tc.setup()
			before := time.Now().UTC()

			err := device.Lock(tc.actor)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.False(t, device.Locked)

				return
			}

			require.NoError(t, err)
			require.True(t, device.Locked)
			require.Equal(t, tc.actor, device.LockedBy)
			require.NotNil(t, device.LockedAt)
			require.False(t, device.LockedAt.Before(before))
			require.Equal(t, *device.LockedAt, device.UpdatedAt)
		})
	}
}

func TestNewLockEvent(t *testing.T) {
	t.Parallel()

	device := model.NewDevice("SN-1", "A-1", "Chromebook")
	require.NoError(t, device.Lock("loaner-admin"))

	event := model.NewLockEvent(device)

	require.Equal(t, device.ID, event.DeviceID)
	require.Equal(t, model.EventDeviceLock, event.Action)
	require.Equal(t, "loaner-admin", event.Actor)
	require.Equal(t, "Locking device.", event.Message)
	require.Equal(t, device.UpdatedAt, event.CreatedAt)
}

func TestDeviceLookup_IsEmpty(t *testing.T) {
	t.Parallel()

	require.True(t, model.DeviceLookup{}.IsEmpty())
	require.False(t, model.DeviceLookup{SerialNumber: "SN-1"}.IsEmpty())
	require.False(t, model.DeviceLookup{ID: "019426d2-5b1e-7c8a-9f3e-123456789abc"}.IsEmpty())
}
