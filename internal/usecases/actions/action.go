package actions

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/architeacher/loaner/internal/ports"
)

// ArgDevice is the argument key carrying the target device.
const ArgDevice = "device"

type (
	// Args are the named arguments a dispatcher hands to an action.
	Args map[string]any

	// Action is a named unit of backend behavior invoked by a dispatcher.
	Action interface {
		Name() string
		FriendlyName() string
		Run(ctx context.Context, args Args) error
	}

	// Registry resolves actions by name.
	Registry struct {
		mu      sync.RWMutex
		actions map[string]Action
	}
)

// String renders the arguments with sorted keys; empty Args render as {}.
func (a Args) String() string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", key, a[key]))
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}

// Device returns the device argument when it holds a usable device.
func (a Args) Device() (ports.LockableDevice, bool) {
	device, ok := a[ArgDevice].(ports.LockableDevice)
	if !ok || device == nil {
		return nil, false
	}

	if value := reflect.ValueOf(device); value.Kind() == reflect.Pointer && value.IsNil() {
		return nil, false
	}

	return device, true
}

func NewRegistry(actions ...Action) (*Registry, error) {
	registry := &Registry{actions: make(map[string]Action, len(actions))}

	for _, action := range actions {
		if err := registry.Register(action); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func (r *Registry) Register(action Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[action.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, action.Name())
	}

	r.actions[action.Name()] = action

	return nil
}

func (r *Registry) Lookup(name string) (Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	return action, nil
}

// List returns the registered actions ordered by name.
func (r *Registry) List() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Action, 0, len(r.actions))
	for _, action := range r.actions {
		list = append(list, action)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})

	return list
}

// Dispatch runs the named action. The action's error is returned as-is.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) error {
	action, err := r.Lookup(name)
	if err != nil {
		return err
	}

	return action.Run(ctx, args)
}
