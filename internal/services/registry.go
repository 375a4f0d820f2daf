package services

import (
	"fmt"

	"github.com/benmeehan/procstat-agent/internal/registry"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/rs/zerolog"
)

// ServiceRegistry manages a collection of services and their startup order
type ServiceRegistry struct {
	services *orderedmap.OrderedMap[string, registry.Service]
	started  []string
	logger   zerolog.Logger
}

// NewServiceRegistry initializes and returns a new ServiceRegistry instance
func NewServiceRegistry(logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services: orderedmap.NewOrderedMap[string, registry.Service](),
		logger:   logger,
	}
}

// RegisterService adds a service to the registry and maintains the order of registration
func (sr *ServiceRegistry) RegisterService(name string, svc registry.Service) {
	if _, exists := sr.services.Get(name); exists {
		sr.logger.Warn().Str("service", name).Msg("Service is already registered")
		return
	}
	sr.services.Set(name, svc)
	sr.logger.Info().Str("service", name).Msg("Registered service")
}

// Names returns the registered service names in registration order.
func (sr *ServiceRegistry) Names() []string {
	return sr.services.Keys()
}

// StartServices starts all registered services in the order they were added.
// If one fails, the services already started are stopped again.
func (sr *ServiceRegistry) StartServices() error {
	for el := sr.services.Front(); el != nil; el = el.Next() {
		sr.logger.Info().Str("service", el.Key).Msg("Starting service")
		if err := el.Value.Start(); err != nil {
			sr.StopServices()
			return fmt.Errorf("failed to start service %s: %w", el.Key, err)
		}
		sr.started = append(sr.started, el.Key)
	}
	return nil
}

// StopServices stops the started services in reverse start order.
func (sr *ServiceRegistry) StopServices() {
	for i := len(sr.started) - 1; i >= 0; i-- {
		name := sr.started[i]
		svc, _ := sr.services.Get(name)
		if err := svc.Stop(); err != nil {
			sr.logger.Error().Err(err).Str("service", name).Msg("Failed to stop service")
		}
	}
	sr.started = nil
}
