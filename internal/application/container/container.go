package container

import (
	"xprem/internal/application/usecase/monitor"
)

// Container builds the use cases on top of infrastructure-provided ports.
type Container struct {
	deps    monitor.ServiceDeps
	monitor *monitor.Service
}

func New(deps monitor.ServiceDeps) *Container {
	return &Container{deps: deps}
}

func (c *Container) Monitor() *monitor.Service {
	if c.monitor == nil {
		c.monitor = monitor.NewService(c.deps)
	}
	return c.monitor
}

func (c *Container) Close() error {
	if c.monitor != nil {
		c.monitor.Close()
	}
	return nil
}
