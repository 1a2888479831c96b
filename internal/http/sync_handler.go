package http

import (
	"net/http"

	"server-runner/internal/models"
	"server-runner/internal/syncs"
)

type syncResponse struct {
	Transfers []models.TransferRecord `json:"transfers"`
}

type syncHandler struct {
	syncService syncs.SyncService
}

func NewSyncHandler(syncService syncs.SyncService) AppHttpHandler {
	return &syncHandler{syncService: syncService}
}

// Handle processes POST /sync.
func (h *syncHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	records, err := h.syncService.Sync(r.Context())
	if err != nil {
		return err
	}
	if records == nil {
		records = []models.TransferRecord{}
	}
	return writeJSON(w, http.StatusOK, syncResponse{Transfers: records})
}
