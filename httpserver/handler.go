package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tm9657/jwk-vault/interfaces"
	"github.com/tm9657/jwk-vault/metrics"
	"github.com/tm9657/jwk-vault/vault"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// indexBody is the static informational response served at the root.
const indexBody = `JWK vault service. POST /secure/{id} with {"password": "..."} to create or fetch a key pair.`

// Handler processes HTTP requests for the vault service. It owns the API
// key gate for the protected routes and the redirect to the distribution
// store's public address for the ungated ones.
type Handler struct {
	service       *vault.Service
	apiKey        string
	publicAddress string
	log           *slog.Logger
}

// NewHandler creates a new HTTP request handler.
//
// Parameters:
//   - service: the vault core implementing create-or-fetch semantics
//   - apiKey: static API key gating all /secure routes
//   - publicAddress: public base address of the distribution store,
//     normalized to end with a slash
//   - log: structured logger
func NewHandler(service *vault.Service, apiKey, publicAddress string, log *slog.Logger) *Handler {
	if !strings.HasSuffix(publicAddress, "/") {
		publicAddress += "/"
	}
	return &Handler{
		service:       service,
		apiKey:        apiKey,
		publicAddress: publicAddress,
		log:           log,
	}
}

// passwordRequest is the JSON body of all protected requests.
type passwordRequest struct {
	Password string `json:"password"`
}

// RequireAPIKey gates a route on the static API key in the Authorization
// header. Comparison is constant-time.
func (h *Handler) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(header), []byte(h.apiKey)) != 1 {
			metrics.AuthFailures.WithLabelValues("api_key").Inc()
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleSecurePost creates a record on first use or returns the previously
// sealed private key, in the export format selected by the optional mode
// path segment.
//
// URL format: POST /secure/{id}[/{mode}], body {"password": string}
func (h *Handler) HandleSecurePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	password, ok := h.password(w, r)
	if !ok {
		return
	}
	mode := interfaces.ParseExportMode(chi.URLParam(r, "mode"))

	exported, created, err := h.service.CreateOrFetch(r.Context(), id, password, mode)
	if err != nil {
		h.writeServiceError(w, err, "create-or-fetch", id)
		return
	}

	if created {
		metrics.RecordsCreated.Inc()
	} else {
		metrics.RecordsFetched.Inc()
	}

	w.Header().Set("Content-Type", exported.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(exported.Body)
}

// HandleSecureDelete removes a record and its published artifacts. Deleting
// a nonexistent record is success, so callers cannot probe existence
// through delete.
//
// URL format: DELETE /secure/{id}, body {"password": string}
func (h *Handler) HandleSecureDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	password, ok := h.password(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, password); err != nil {
		h.writeServiceError(w, err, "delete", id)
		return
	}

	metrics.RecordsDeleted.Inc()
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ok"))
}

// HandleSecureProbe reports whether a record exists, without requiring a
// password and without revealing key material.
//
// URL format: GET /secure/{id}
func (h *Handler) HandleSecureProbe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "probe", id)
		return
	}
	if !exists {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ok"))
}

// HandlePublicRedirect redirects to the distribution store's public address
// for the public key artifact. The pem and spki modes select the SPKI
// encoding, everything else the JWK document.
//
// URL format: GET /{id}[/{mode}] (ungated)
func (h *Handler) HandlePublicRedirect(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var target string
	switch chi.URLParam(r, "mode") {
	case "spki", "pem":
		target = h.publicAddress + vault.PublicSPKIPath(id)
	default:
		target = h.publicAddress + vault.PublicJWKPath(id)
	}

	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// HandleIndex serves the static informational page.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexBody))
}

// recordID extracts and escapes the id path parameter. Writes a 400
// response and returns false if it is missing.
func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (interfaces.RecordID, bool) {
	id, err := interfaces.NewRecordID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// password parses and validates the request body. All validation happens
// here, before any cryptographic or storage work.
func (h *Handler) password(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req passwordRequest
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil || req.Password == "" {
		http.Error(w, "Invalid Request!", http.StatusBadRequest)
		return "", false
	}
	return req.Password, true
}

// writeServiceError maps a vault service error to an HTTP response. A
// password mismatch is the only error distinguished for the caller; every
// other failure is logged and reported as a generic internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string, id interfaces.RecordID) {
	if errors.Is(err, vault.ErrUnauthorized) {
		metrics.AuthFailures.WithLabelValues("password").Inc()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	metrics.InternalFailures.Inc()
	h.log.Error("Vault operation failed", "err", err,
		slog.String("op", op),
		slog.String("id", id.String()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
