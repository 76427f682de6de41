// Package httpd exposes the certificate registry over HTTP: submission,
// verification and a health check.
package httpd

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vividmedi/medicert/internal/api"
	"github.com/vividmedi/medicert/internal/registry"
)

// CertificateHandler serves the submit and verify endpoints.
type CertificateHandler struct {
	reg *registry.Registry
}

// NewCertificateHandler creates the handler over reg.
func NewCertificateHandler(reg *registry.Registry) *CertificateHandler {
	return &CertificateHandler{reg: reg}
}

// Submit handles POST /api/submit.
func (h *CertificateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmissionRequest
	if err := ParseJSONBody(r, &req); err != nil {
		JSONResponse(w, http.StatusBadRequest, api.SubmitResponse{
			Success: false,
			Message: "invalid JSON body",
		})
		return
	}

	code, err := h.reg.Submit(r.Context(), req)
	if errors.Is(err, registry.ErrValidation) {
		JSONResponse(w, http.StatusBadRequest, api.SubmitResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		slog.Error("submission failed", "error", err)
		JSONResponse(w, http.StatusInternalServerError, api.SubmitResponse{
			Success: false,
			Message: "failed to store submission, please retry",
		})
		return
	}

	JSONResponse(w, http.StatusOK, api.SubmitResponse{
		Success:           true,
		CertificateNumber: code,
	})
}

// Verify handles GET /api/verify/{code}.
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	rec, found, err := h.reg.Verify(r.Context(), code)
	if err != nil {
		slog.Error("verification failed", "code", code, "error", err)
		JSONResponse(w, http.StatusInternalServerError, api.VerifyResponse{Valid: false})
		return
	}
	if !found {
		JSONResponse(w, http.StatusNotFound, api.VerifyResponse{Valid: false})
		return
	}

	view := rec.View()
	JSONResponse(w, http.StatusOK, api.VerifyResponse{
		Valid:       true,
		Certificate: &view,
	})
}
