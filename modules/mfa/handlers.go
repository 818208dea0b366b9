package mfa

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/mfakit/pkg/authgate"
	"github.com/dmitrymomot/mfakit/pkg/enrollment"
	"github.com/dmitrymomot/mfakit/pkg/qrcode"
)

// setupResponse is the payload for GET /qr. The secret appears here and
// nowhere else; it is never persisted or logged on the server side.
type setupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code,omitempty"` // base64 PNG data URI
}

type confirmRequest struct {
	Secret      string `json:"secret" validate:"required"`
	InitialCode string `json:"initial_code" validate:"required,numeric"`
	DeviceName  string `json:"device_name" validate:"required,max=128"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) setup(w http.ResponseWriter, r *http.Request) {
	principal := authgate.MustFromContext(r.Context())

	setup, err := s.coordinator.Setup(r.Context(), principal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := setupResponse{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
	}
	// The QR image is a convenience rendering of the URI; if encoding fails
	// the client can still render its own from provisioning_uri.
	if qr, err := qrcode.DataURI(setup.ProvisioningURI, s.qrSize); err == nil {
		resp.QRCode = qr
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) confirm(w http.ResponseWriter, r *http.Request) {
	principal := authgate.MustFromContext(r.Context())

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument"})
			return
		}
		s.writeError(w, err)
		return
	}

	err := s.coordinator.Confirm(r.Context(), principal, enrollment.ConfirmRequest{
		Secret:      req.Secret,
		InitialCode: req.InitialCode,
		DeviceName:  req.DeviceName,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps the enrollment error taxonomy onto HTTP statuses. Anything
// unrecognized is a server error; its detail stays out of the response body.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "already_enrolled"})
	case errors.Is(err, enrollment.ErrInvalidArgument):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_argument"})
	case errors.Is(err, enrollment.ErrInvalidCode):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_code"})
	default:
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
