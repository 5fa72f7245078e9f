package runtime

import "os"

type ServiceOption func(*ServiceCtx)

func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(c *ServiceCtx) {
		c.shutdownChannel = ch
	}
}

func WithWaitingForServer() ServiceOption {
	return func(c *ServiceCtx) {
		c.serverReady = make(chan struct{}, 1)
	}
}

// WithDependencyOptions appends options applied after the defaults, letting
// callers replace individual dependencies.
func WithDependencyOptions(opts ...DependencyOption) ServiceOption {
	return func(c *ServiceCtx) {
		c.dependencyOptions = append(c.dependencyOptions, opts...)
	}
}
