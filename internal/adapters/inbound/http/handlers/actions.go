package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/architeacher/loaner/internal/ports"
	"github.com/architeacher/loaner/internal/usecases/actions"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type (
	// ActionsHandler exposes the action registry over HTTP.
	ActionsHandler struct {
		registry *actions.Registry
		devices  ports.DevicesService
		logger   logger.Logger
	}

	actionResponse struct {
		Name         string `json:"name"`
		FriendlyName string `json:"friendly_name"`
	}

	deviceReference struct {
		ID           string `json:"id"`
		SerialNumber string `json:"serial_number"`
	}
)

func NewActionsHandler(registry *actions.Registry, devices ports.DevicesService, log logger.Logger) *ActionsHandler {
	return &ActionsHandler{
		registry: registry,
		devices:  devices,
		logger:   log,
	}
}

func (h *ActionsHandler) ListActions(w http.ResponseWriter, _ *http.Request) {
	list := h.registry.List()

	body := make([]actionResponse, 0, len(list))
	for _, action := range list {
		body = append(body, actionResponse{Name: action.Name(), FriendlyName: action.FriendlyName()})
	}

	writeJSON(w, http.StatusOK, body)
}

// RunAction dispatches the named action. A "device" object in the body is
// resolved to a stored device; every other field is passed through as-is.
func (h *ActionsHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if _, err := h.registry.Lookup(name); err != nil {
		h.fail(w, r, name, err)

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	args, err := h.buildArgs(r)
	if err != nil {
		h.fail(w, r, name, err)

		return
	}

	if err := h.registry.Dispatch(r.Context(), name, args); err != nil {
		h.fail(w, r, name, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ActionsHandler) buildArgs(r *http.Request) (actions.Args, error) {
	raw, err := decodeBody(r)
	if err != nil {
		return nil, err
	}

	args := make(actions.Args, len(raw))

	for key, value := range raw {
		if key == actions.ArgDevice {
			continue
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errMalformedBody, key, err)
		}

		args[key] = decoded
	}

	rawDevice, ok := raw[actions.ArgDevice]
	if !ok {
		return args, nil
	}

	if bytes.Equal(bytes.TrimSpace(rawDevice), []byte("null")) {
		args[actions.ArgDevice] = nil

		return args, nil
	}

	var ref deviceReference
	if err := json.Unmarshal(rawDevice, &ref); err != nil {
		return nil, fmt.Errorf("%w: device: %v", errMalformedBody, err)
	}

	lookup := model.DeviceLookup{ID: ref.ID, SerialNumber: ref.SerialNumber}
	if lookup.IsEmpty() {
		args[actions.ArgDevice] = nil

		return args, nil
	}

	device, err := h.devices.ResolveDevice(r.Context(), lookup)
	if err != nil {
		return nil, err
	}

	args[actions.ArgDevice] = device

	return args, nil
}

func decodeBody(r *http.Request) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}

		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	return raw, nil
}

func (h *ActionsHandler) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	status, code := mapError(err)

	log := h.logger.WithContext(r.Context())

	level := zerolog.WarnLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}

	event := log.WithLevel(level)

	event.Err(err).Str("action", name).Int("status", status).Msg("action failed")

	writeError(w, status, code, err.Error())
}
