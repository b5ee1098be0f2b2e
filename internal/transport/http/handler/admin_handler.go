package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-portal/internal/domain"
	"employee-portal/internal/transport/http/ez"
)

type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// AdminHandler serves the credential check. It issues no session or token.
type AdminHandler struct {
	svc      CredentialVerifier
	throttle []gin.HandlerFunc
}

func NewAdminHandler(svc CredentialVerifier, throttle ...gin.HandlerFunc) *AdminHandler {
	return &AdminHandler{svc: svc, throttle: throttle}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validOut struct {
	Valid bool `json:"valid"`
}

func (h *AdminHandler) Priority() int { return 20 }

func (h *AdminHandler) MountAPI(g *gin.RouterGroup) {
	ez.Register(ez.New(g), ez.Action[credentials, validOut]{
		Method:     http.MethodPost,
		Path:       "/validate",
		Binder:     ez.BindJSON,
		Middleware: h.throttle,
		Handler: func(c *gin.Context, in *credentials) (validOut, error) {
			ok, err := h.svc.Verify(c.Request.Context(), in.Username, in.Password)
			var ve *domain.ValidationError
			switch {
			case errors.As(err, &ve):
				return validOut{}, ez.BadRequest("Username and password are required", ve.Fields...)
			case err != nil:
				return validOut{}, ez.Internal("Failed to validate credentials", err)
			}
			return validOut{Valid: ok}, nil
		},
	})
}
