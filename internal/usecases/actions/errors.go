package actions

import (
	"errors"
	"fmt"
)

var (
	// ErrAction is the base category for failures raised by actions themselves.
	ErrAction = errors.New("action failed")

	ErrMissingDevice   = errors.New("no device supplied")
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("action already registered")
)

// LockDeviceError reports a lock request that carried no device.
type LockDeviceError struct {
	Args Args
}

func (e *LockDeviceError) Error() string {
	return fmt.Sprintf("cannot lock device: task did not receive a device; only kwargs: %s", e.Args)
}

func (e *LockDeviceError) Unwrap() []error {
	return []error{ErrAction, ErrMissingDevice}
}
