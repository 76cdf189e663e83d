package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"phoneauth/internal/dto"
	"phoneauth/internal/service"
)

const maxBodyBytes = 4 << 10

type handlers struct {
	auth   service.AuthService
	tokens service.TokenService
}

type keySource interface {
	JWKS() []map[string]any
}

func (h *handlers) sendCode(w http.ResponseWriter, r *http.Request) {
	var req dto.SendCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.RequestCode(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, r, errUnauthorized)
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, r, errUnauthorized)
		return
	}
	res, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) jwks(w http.ResponseWriter, r *http.Request) {
	keys := []map[string]any{}
	if ks, ok := h.tokens.(keySource); ok {
		keys = ks.JWKS()
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, errEmptyBody)
		} else {
			writeError(w, r, errBadRequest)
		}
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
