package containers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"server-runner/internal/models"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/ulid"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	managedLabel      = "server-runner.managed"
	managedLabelValue = "true"
	networkSuffixLen  = 8
)

// dockerAPI is the part of the docker client the service needs. *client.Client satisfies it.
type dockerAPI interface {
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	NetworkRemove(ctx context.Context, networkID string) error
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	Close() error
}

type dockerContainerService struct {
	docker  dockerAPI
	cfg     configs.ContainersConfig
	dataDir string
}

// NewDockerContainerService connects to the docker engine described by the DOCKER_* environment.
// dataDir is bind mounted into the container at cfg.MountPath.
func NewDockerContainerService(cfg configs.ContainersConfig, dataDir string) (ContainerService, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return newDockerContainerService(cli, cfg, dataDir)
}

func newDockerContainerService(docker dockerAPI, cfg configs.ContainersConfig, dataDir string) (*dockerContainerService, error) {
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	return &dockerContainerService{docker: docker, cfg: cfg, dataDir: absDataDir}, nil
}

func (s *dockerContainerService) Start(ctx context.Context) (status *models.ContainerStatus, err error) {
	startedAt := time.Now()
	defer func() {
		observeOperation(operationStart, err)
		metricOperationDuration.WithLabelValues(operationStart).Observe(time.Since(startedAt).Seconds())
	}()

	logger := loggers.Ctx(ctx).With().Str(loggers.FieldContainer, s.cfg.Name).Logger()

	existing, err := s.find(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.State == models.ContainerStateRunning {
			return nil, errAlreadyRunning(s.cfg.Name)
		}
		// an exited container that was not auto-removed still holds the name
		if err := s.docker.ContainerRemove(ctx, existing.ID, container.RemoveOptions{Force: true}); err != nil {
			return nil, errInternalDockerFailed("Remove", err)
		}
		logger.Info().Str("state", existing.State).Msg("removed stale container")
	}

	// networks left behind by an unclean stop
	if err := s.removeNetworks(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("image", s.cfg.Image).Msg("pulling image")
	progress, err := s.docker.ImagePull(ctx, s.cfg.Image, image.PullOptions{})
	if err != nil {
		return nil, errInternalDockerFailed("Pull", err)
	}
	_, err = io.Copy(io.Discard, progress)
	_ = progress.Close()
	if err != nil {
		return nil, errInternalDockerFailed("Pull", err)
	}

	networkName := s.networkName()
	if _, err := s.docker.NetworkCreate(ctx, networkName, network.CreateOptions{
		Labels: map[string]string{managedLabel: managedLabelValue},
	}); err != nil {
		return nil, errInternalDockerFailed("NetworkCreate", err)
	}

	config, hostConfig, netConfig, err := buildContainerSpec(s.cfg, s.dataDir, networkName)
	if err != nil {
		return nil, errInternalDockerFailed("Spec", err)
	}

	created, err := s.docker.ContainerCreate(ctx, config, hostConfig, netConfig, nil, s.cfg.Name)
	if err != nil {
		return nil, errInternalDockerFailed("Create", err)
	}
	for _, warning := range created.Warnings {
		logger.Warn().Msg(warning)
	}

	if err := s.docker.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, errInternalDockerFailed("Start", err)
	}

	logger.Info().Str("container_id", created.ID).Str("network", networkName).Msg("container started")
	return &models.ContainerStatus{
		Name:    s.cfg.Name,
		ID:      created.ID,
		State:   models.ContainerStateRunning,
		Running: true,
		Network: networkName,
	}, nil
}

func (s *dockerContainerService) Stop(ctx context.Context) (status *models.ContainerStatus, err error) {
	startedAt := time.Now()
	defer func() {
		observeOperation(operationStop, err)
		metricOperationDuration.WithLabelValues(operationStop).Observe(time.Since(startedAt).Seconds())
	}()

	logger := loggers.Ctx(ctx).With().Str(loggers.FieldContainer, s.cfg.Name).Logger()

	existing, err := s.find(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.State != models.ContainerStateRunning {
		return nil, errNotRunning(s.cfg.Name)
	}

	timeout := s.cfg.StopTimeoutSeconds
	if err := s.docker.ContainerStop(ctx, existing.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return nil, errInternalDockerFailed("Stop", err)
	}

	if err := s.removeNetworks(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("container_id", existing.ID).Msg("container stopped")
	return &models.ContainerStatus{
		Name:  s.cfg.Name,
		ID:    existing.ID,
		State: "exited",
	}, nil
}

func (s *dockerContainerService) Status(ctx context.Context) (*models.ContainerStatus, error) {
	existing, err := s.find(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &models.ContainerStatus{Name: s.cfg.Name, State: models.ContainerStateAbsent}, nil
	}
	return existing, nil
}

func (s *dockerContainerService) Close() error {
	return s.docker.Close()
}

// find returns the container with the configured name, or nil when there is none.
func (s *dockerContainerService) find(ctx context.Context) (*models.ContainerStatus, error) {
	list, err := s.docker.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", s.cfg.Name)),
	})
	if err != nil {
		return nil, errInternalDockerFailed("List", err)
	}

	// the name filter matches substrings, docker names carry a leading slash
	for _, c := range list {
		for _, name := range c.Names {
			if strings.TrimPrefix(name, "/") != s.cfg.Name {
				continue
			}
			status := &models.ContainerStatus{
				Name:    s.cfg.Name,
				ID:      c.ID,
				State:   c.State,
				Running: c.State == models.ContainerStateRunning,
			}
			if c.NetworkSettings != nil {
				for netName := range c.NetworkSettings.Networks {
					status.Network = netName
				}
			}
			return status, nil
		}
	}
	return nil, nil
}

func (s *dockerContainerService) removeNetworks(ctx context.Context) error {
	list, err := s.docker.NetworkList(ctx, network.ListOptions{
		Filters: filters.NewArgs(filters.Arg("label", managedLabel+"="+managedLabelValue)),
	})
	if err != nil {
		return errInternalDockerFailed("NetworkList", err)
	}
	for _, n := range list {
		if err := s.docker.NetworkRemove(ctx, n.ID); err != nil {
			return errInternalDockerFailed("NetworkRemove", err)
		}
		loggers.Ctx(ctx).Debug().Str("network", n.Name).Msg("network removed")
	}
	return nil
}

func (s *dockerContainerService) networkName() string {
	return s.cfg.NetworkPrefix + "-" + ulid.NewSuffix(networkSuffixLen)
}

// buildContainerSpec turns the container settings into docker create arguments.
func buildContainerSpec(cfg configs.ContainersConfig, dataDir, networkName string) (*container.Config, *container.HostConfig, *network.NetworkingConfig, error) {
	port, err := nat.NewPort(cfg.Protocol, strconv.Itoa(cfg.Port))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid port %d/%s: %w", cfg.Port, cfg.Protocol, err)
	}

	config := &container.Config{
		Hostname:     cfg.Hostname,
		Image:        cfg.Image,
		Env:          cfg.Env,
		ExposedPorts: nat.PortSet{port: struct{}{}},
		Labels:       map[string]string{managedLabel: managedLabelValue},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{HostIP: cfg.HostIP, HostPort: strconv.Itoa(cfg.Port)}},
		},
		Binds:      []string{dataDir + ":" + cfg.MountPath},
		Privileged: cfg.Privileged,
		AutoRemove: true,
		Resources: container.Resources{
			Memory: cfg.MemoryGiB << 30,
		},
	}

	netConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			networkName: {},
		},
	}

	return config, hostConfig, netConfig, nil
}
