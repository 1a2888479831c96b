package http

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"server-runner/internal/backups"
	"server-runner/internal/models"
)

const (
	defaultHistoryLimit = 50
	uploadFormField     = "file"
	// room for multipart boundaries and part headers on top of the archive itself
	multipartOverheadBytes = 1 << 20
)

type backupRequest struct {
	Backup string `json:"backup"`
}

type backupListResponse struct {
	Backups []*models.BackupInfo `json:"backups"`
}

type backupDeleteResponse struct {
	Deleted string `json:"deleted"`
}

type historyResponse struct {
	History []*models.HistoryEntry `json:"history"`
}

type backupHandler struct {
	backupService  backups.BackupService
	maxUploadBytes int64
}

func newBackupHandler(backupService backups.BackupService, maxUploadBytes int64) *backupHandler {
	return &backupHandler{backupService: backupService, maxUploadBytes: maxUploadBytes}
}

// create serves POST /backup with an optional {"backup": name} body.
func (h *backupHandler) create(w http.ResponseWriter, r *http.Request) error {
	var req backupRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return err
	}

	info, err := h.backupService.Create(r.Context(), strings.TrimSpace(req.Backup))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, info)
}

func (h *backupHandler) list(w http.ResponseWriter, r *http.Request) error {
	infos, err := h.backupService.List(r.Context())
	if err != nil {
		return err
	}
	if infos == nil {
		infos = []*models.BackupInfo{}
	}
	return writeJSON(w, http.StatusOK, backupListResponse{Backups: infos})
}

// delete serves DELETE /backup/delete?delete=<file>.
func (h *backupHandler) delete(w http.ResponseWriter, r *http.Request) error {
	fileName := strings.TrimSpace(r.URL.Query().Get("delete"))
	if fileName == "" {
		return errInvalidQueryParam("delete", nil)
	}

	if err := h.backupService.Delete(r.Context(), fileName); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, backupDeleteResponse{Deleted: fileName})
}

// load serves POST /backup/load. With ?file=true the archive is read from the multipart field
// "file"; otherwise the body is {"backup": file} naming an archive already on disk.
func (h *backupHandler) load(w http.ResponseWriter, r *http.Request) error {
	if isTrue(r.URL.Query().Get("file")) {
		return h.loadUpload(w, r)
	}

	var req backupRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return err
	}

	result, err := h.backupService.Load(r.Context(), strings.TrimSpace(req.Backup))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *backupHandler) loadUpload(w http.ResponseWriter, r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(contentType(r))
	if mediaType != "multipart/form-data" {
		return errUnsupportedMedia(mediaType)
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverheadBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		return errMissingUploadFile(err)
	}
	part, err := nextFilePart(reader)
	if err != nil {
		return err
	}
	defer part.Close()

	result, err := h.backupService.LoadUpload(r.Context(), part.FileName(), part, uploadSize(r, part, h.maxUploadBytes))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

// history serves GET /backup/history?limit=N, or every entry of one backup with ?file=<name>.
func (h *backupHandler) history(w http.ResponseWriter, r *http.Request) error {
	var (
		entries []*models.HistoryEntry
		err     error
	)
	if fileName := strings.TrimSpace(r.URL.Query().Get("file")); fileName != "" {
		entries, err = h.backupService.FileHistory(r.Context(), fileName)
	} else {
		var limit int
		limit, err = intQueryParam(r, "limit", defaultHistoryLimit)
		if err != nil {
			return err
		}
		entries, err = h.backupService.History(r.Context(), limit)
	}
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*models.HistoryEntry{}
	}
	return writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

// nextFilePart skips form fields until the upload part. Parts are streamed, never buffered.
func nextFilePart(reader *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingUploadFile(nil)
		}
		if err != nil {
			return nil, errMissingUploadFile(err)
		}
		if part.FormName() == uploadFormField {
			return part, nil
		}
		_ = part.Close()
	}
}

// partSize returns the part's declared Content-Length, or -1 when the client did not send one.
func partSize(part *multipart.Part) int64 {
	raw := part.Header.Get("Content-Length")
	if raw == "" {
		return -1
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// uploadSize is the part size when declared. Browsers never declare it, so the request body length
// stands in; it includes the multipart framing, which is close enough for progress reporting.
// The estimate is capped at limit so framing alone never rejects an upload up front.
func uploadSize(r *http.Request, part *multipart.Part, limit int64) int64 {
	if n := partSize(part); n >= 0 {
		return n
	}
	if r.ContentLength > 0 {
		return min(r.ContentLength, limit)
	}
	return -1
}

func isTrue(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
