package containers

import (
	"context"

	"server-runner/internal/models"
)

// ContainerService controls the single game server container.
//
//go:generate mockgen -source=container_service.go -destination=./mocks/container_service_mock.go -package=mocks
type ContainerService interface {
	Start(ctx context.Context) (*models.ContainerStatus, error)
	Stop(ctx context.Context) (*models.ContainerStatus, error)
	Status(ctx context.Context) (*models.ContainerStatus, error)
	Close() error
}

type disabledContainerService struct {
	name string
}

// NewDisabledContainerService is used when container control is turned off.
// Status reports the disabled state and Start/Stop fail with a precondition error.
func NewDisabledContainerService(name string) ContainerService {
	return &disabledContainerService{name: name}
}

func (s *disabledContainerService) Start(context.Context) (*models.ContainerStatus, error) {
	return nil, errDisabled()
}

func (s *disabledContainerService) Stop(context.Context) (*models.ContainerStatus, error) {
	return nil, errDisabled()
}

func (s *disabledContainerService) Status(context.Context) (*models.ContainerStatus, error) {
	return &models.ContainerStatus{Name: s.name, State: models.ContainerStateDisabled}, nil
}

func (s *disabledContainerService) Close() error { return nil }
