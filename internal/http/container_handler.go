package http

import (
	"net/http"

	"server-runner/internal/containers"
)

// containerHandler serves POST /start, POST /stop and GET /status.
type containerHandler struct {
	containerService containers.ContainerService
}

func newContainerHandler(containerService containers.ContainerService) *containerHandler {
	return &containerHandler{containerService: containerService}
}

func (h *containerHandler) start(w http.ResponseWriter, r *http.Request) error {
	status, err := h.containerService.Start(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, status)
}

func (h *containerHandler) stop(w http.ResponseWriter, r *http.Request) error {
	status, err := h.containerService.Stop(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, status)
}

func (h *containerHandler) status(w http.ResponseWriter, r *http.Request) error {
	status, err := h.containerService.Status(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, status)
}
