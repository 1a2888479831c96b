package http

import (
	"net/http"

	"server-runner/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginHandler struct {
	authService auth.AuthService
}

func NewLoginHandler(authService auth.AuthService) AppHttpHandler {
	return &loginHandler{authService: authService}
}

// Handle processes POST /login. The token is returned in the body and as an Authorization header.
func (h *loginHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	setBearerToken(w, result.Token)
	return writeJSON(w, http.StatusOK, result)
}
