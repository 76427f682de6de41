package httpd

import (
	"net/http"

	"github.com/vividmedi/medicert/internal/registry"
)

// NewHandler builds the full HTTP surface: routes, logging and CORS.
func NewHandler(reg *registry.Registry, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	certHandler := NewCertificateHandler(reg)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/submit", WithLogging(certHandler.Submit))
	mux.HandleFunc("GET /api/verify/{code}", WithLogging(certHandler.Verify))

	return CORS(allowedOrigins, mux)
}
