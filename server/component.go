package server

import (
	"context"

	"github.com/kbukum/whisper-mcp/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component runs the Server under the component registry.
type Component struct {
	server *Server
}

// NewComponent wraps s for registration.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name implements component.Component.
func (c *Component) Name() string { return componentName }

// Start implements component.Component.
func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

// Stop implements component.Component.
func (c *Component) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// Health implements component.Component.
func (c *Component) Health(_ context.Context) component.Health {
	if !c.server.Listening() {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "not listening",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy, Message: c.server.Addr()}
}
