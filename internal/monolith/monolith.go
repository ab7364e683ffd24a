// Package monolith wires bounded contexts into a single deployable unit.
package monolith

import (
	"context"
	"log/slog"

	"github.com/arbsentry/spread-bot/internal/config"
	"github.com/arbsentry/spread-bot/internal/di"
)

// Monolith exposes the shared infrastructure each module can draw on.
type Monolith interface {
	Config() *config.Config
	Logger() *slog.Logger
	Services() di.ServiceRegistry
}

// Module is a bounded context that registers its services into the
// container and performs startup work.
type Module interface {
	RegisterServices(m Monolith, c di.Container) error
	Startup(ctx context.Context, m Monolith) error
}

type monolith struct {
	cfg       *config.Config
	log       *slog.Logger
	container di.Container
	modules   []Module
}

// New builds the application container.
func New(cfg *config.Config, log *slog.Logger) *monolith {
	return &monolith{
		cfg:       cfg,
		log:       log,
		container: di.NewContainer(),
	}
}

func (m *monolith) Config() *config.Config       { return m.cfg }
func (m *monolith) Logger() *slog.Logger         { return m.log }
func (m *monolith) Services() di.ServiceRegistry { return m.container }

// RegisterModules registers each module's services. All registrations
// complete before any module starts, so cross-context lookups resolve.
func (m *monolith) RegisterModules(modules ...Module) error {
	for _, mod := range modules {
		if err := mod.RegisterServices(m, m.container); err != nil {
			return err
		}
	}
	m.modules = append(m.modules, modules...)
	return nil
}

// StartModules runs each registered module's startup hook in order.
func (m *monolith) StartModules(ctx context.Context) error {
	for _, mod := range m.modules {
		if err := mod.Startup(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
