package actions

import (
	"context"

	"github.com/architeacher/loaner/internal/usecases/commands"
	"github.com/architeacher/loaner/pkg/logger"
)

const (
	LockDeviceName         = "lock_device"
	LockDeviceFriendlyName = "Lock device"
)

// LockDeviceAction locks the device it receives on behalf of the administrator.
type LockDeviceAction struct {
	handler       commands.LockDeviceCommandHandler
	adminUsername string
}

func NewLockDeviceAction(handler commands.LockDeviceCommandHandler, adminUsername string) *LockDeviceAction {
	return &LockDeviceAction{
		handler:       handler,
		adminUsername: adminUsername,
	}
}

func (a *LockDeviceAction) Name() string {
	return LockDeviceName
}

func (a *LockDeviceAction) FriendlyName() string {
	return LockDeviceFriendlyName
}

func (a *LockDeviceAction) Run(ctx context.Context, args Args) error {
	device, ok := args.Device()
	if !ok {
		return &LockDeviceError{Args: args}
	}

	_, err := a.handler.Handle(logger.WithActor(ctx, a.adminUsername), commands.LockDeviceCommand{
		Device: device,
		Actor:  a.adminUsername,
	})

	return err
}
