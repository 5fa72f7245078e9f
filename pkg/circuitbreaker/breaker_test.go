package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/architeacher/loaner/pkg/circuitbreaker"
	"github.com/stretchr/testify/require"
)

var (
	errDependency = errors.New("dependency down")
	errNotFound   = errors.New("not found")
)

func enabledConfig(name string) circuitbreaker.Config {
	return circuitbreaker.Config{
		Name:             name,
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}
}

func TestNew_DisabledReturnsNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, circuitbreaker.New(circuitbreaker.Config{Name: "off"}))
}

func TestBreaker_NilRunsDirectly(t *testing.T) {
	t.Parallel()

	var breaker *circuitbreaker.Breaker

	calls := 0
	err := breaker.Do(func() error {
		calls++

		return errDependency
	})

	require.Equal(t, 1, calls)
	require.ErrorIs(t, err, errDependency)
}

func TestBreaker_Do(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		cfg         func() circuitbreaker.Config
		failures    []error
		expectedErr error
		expectedRun bool
	}{
		{
			name:        "stays closed below the threshold",
			cfg:         func() circuitbreaker.Config { return enabledConfig("below") },
			failures:    []error{errDependency},
			expectedErr: nil,
			expectedRun: true,
		},
		{
			name:        "opens after consecutive failures",
			cfg:         func() circuitbreaker.Config { return enabledConfig("opens") },
			failures:    []error{errDependency, errDependency},
			expectedErr: circuitbreaker.ErrCircuitOpen,
			expectedRun: false,
		},
		{
			name: "ignored errors do not trip",
			cfg: func() circuitbreaker.Config {
				cfg := enabledConfig("ignored")
				cfg.Ignore = func(err error) bool { return errors.Is(err, errNotFound) }

				return cfg
			},
			failures:    []error{errNotFound, errNotFound, errNotFound},
			expectedErr: nil,
			expectedRun: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			breaker := circuitbreaker.New(tc.cfg())
			require.NotNil(t, breaker)

			for _, failure := range tc.failures {
				err := breaker.Do(func() error { return failure })
				require.ErrorIs(t, err, failure)
			}

			ran := false
			err := breaker.Do(func() error {
				ran = true

				return nil
			})

			require.Equal(t, tc.expectedRun, ran)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBreaker_ReportsStateChanges(t *testing.T) {
	t.Parallel()

	var transitions []string

	cfg := enabledConfig("transitions")
	cfg.OnStateChange = func(_ string, from, to string) {
		transitions = append(transitions, from+"->"+to)
	}

	breaker := circuitbreaker.New(cfg)

	for range 2 {
		_ = breaker.Do(func() error { return errDependency })
	}

	require.Equal(t, "open", breaker.State())
	require.Equal(t, []string{"closed->open"}, transitions)
}
