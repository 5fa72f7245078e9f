package decorator_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/architeacher/loaner/pkg/decorator"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

type (
	pingCommand struct {
		Target string
	}

	pingHandler struct {
		err   error
		calls int
	}

	recordingMetrics struct {
		mu       sync.Mutex
		counters map[string]int64
		observed []string
	}
)

func (h *pingHandler) Handle(_ context.Context, cmd pingCommand) (string, error) {
	h.calls++

	if h.err != nil {
		return "", h.err
	}

	return "pong:" + cmd.Target, nil
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counters: make(map[string]int64)}
}

func (m *recordingMetrics) Inc(_ context.Context, key string, value int64, _ ...attribute.KeyValue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[key] += value
}

func (m *recordingMetrics) Observe(_ context.Context, key string, _ float64, _ ...attribute.KeyValue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observed = append(m.observed, key)
}

func (m *recordingMetrics) Shutdown(context.Context) error {
	return nil
}

func TestApplyCommandDecorators(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	cases := []struct {
		name           string
		handlerErr     error
		expectedResult string
		expectedKey    string
		expectedLog    string
	}{
		{
			name:           "success passes result through",
			expectedResult: "pong:device",
			expectedKey:    "commands.pingcommand.success",
			expectedLog:    "command executed successfully",
		},
		{
			name:        "failure returns the handler error unchanged",
			handlerErr:  errBoom,
			expectedKey: "commands.pingcommand.failure",
			expectedLog: "failed to execute command",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			mc := newRecordingMetrics()
			base := &pingHandler{err: tc.handlerErr}

			handler := decorator.ApplyCommandDecorators[pingCommand, string](
				base,
				logger.NewBufferedTestLogger(&buf),
				mc,
				noop.NewTracerProvider(),
			)

			result, err := handler.Handle(t.Context(), pingCommand{Target: "device"})

			require.Equal(t, 1, base.calls)
			require.Equal(t, tc.expectedResult, result)

			if tc.handlerErr != nil {
				require.Same(t, tc.handlerErr, err)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, int64(1), mc.counters[tc.expectedKey])
			require.Equal(t, []string{"commands.pingcommand.duration"}, mc.observed)
			require.Contains(t, buf.String(), tc.expectedLog)
			require.Contains(t, buf.String(), `"command":"pingCommand"`)
		})
	}
}
