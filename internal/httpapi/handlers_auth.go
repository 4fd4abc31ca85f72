package httpapi

import (
	"errors"
	"net/http"

	"github.com/kongyujesse/portfolio-backend/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (handlers *Handlers) login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expires, err := handlers.service.Login(payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeMessage(writer, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		handlers.writeError(writer, request, err, "login")
		return
	}

	claims, _ := handlers.service.Verify(token)
	writeJSON(writer, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expires,
		"user":      adminUser{Email: claims.Email, Role: claims.Role},
	})
}

func (handlers *Handlers) verify(writer http.ResponseWriter, request *http.Request) {
	claims, _ := claimsFrom(request.Context())
	writeJSON(writer, http.StatusOK, map[string]any{
		"user": adminUser{Email: claims.Email, Role: claims.Role},
	})
}
