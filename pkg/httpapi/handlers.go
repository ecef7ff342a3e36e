package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
	"github.com/storekeep/storekeep/pkg/svc/orchestrator"
	"github.com/storekeep/storekeep/pkg/svc/registry"
	"github.com/storekeep/storekeep/pkg/utils/notify"
)

// createStoreBody is the request payload for store creation.
type createStoreBody struct {
	Domain     string `json:"domain"`
	StoreName  string `json:"storeName,omitempty"`
	AdminEmail string `json:"adminEmail,omitempty"`
}

// createStoreResponse is the 202 payload returned before the deploy outcome
// is known.
type createStoreResponse struct {
	Message string       `json:"message"`
	Store   storeSummary `json:"store"`
}

// storeSummary is the public projection of a freshly accepted store.
type storeSummary struct {
	ID          string                   `json:"id"`
	Domain      string                   `json:"domain"`
	Status      v1alpha1.Status          `json:"status"`
	Namespace   string                   `json:"namespace"`
	Credentials orchestrator.Credentials `json:"credentials"`
}

// listStoresResponse wraps the annotated store list.
type listStoresResponse struct {
	Stores []v1alpha1.Store `json:"stores"`
}

// deleteStoreResponse confirms a completed deletion.
type deleteStoreResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// errorResponse is the uniform JSON error shape.
type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the route table for the store API. Failure detail that is
// not safe for clients is written to logOut instead.
func NewRouter(orch *orchestrator.Orchestrator, logOut io.Writer) http.Handler {
	handlers := &storeHandlers{orchestrator: orch, logOut: logOut}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /stores", handlers.createStore)
	mux.HandleFunc("GET /stores", handlers.listStores)
	mux.HandleFunc("DELETE /stores/{id}", handlers.deleteStore)
	mux.HandleFunc("GET /health", handleHealth)

	return mux
}

type storeHandlers struct {
	orchestrator *orchestrator.Orchestrator
	logOut       io.Writer
}

func (h *storeHandlers) createStore(w http.ResponseWriter, r *http.Request) {
	var body createStoreBody

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	created, err := h.orchestrator.CreateStore(r.Context(), orchestrator.CreateStoreRequest{
		Domain:     body.Domain,
		StoreName:  body.StoreName,
		AdminEmail: body.AdminEmail,
	})
	if err != nil {
		h.writeOrchestratorError(w, err)

		return
	}

	writeJSON(w, http.StatusAccepted, createStoreResponse{
		Message: "Store creation initiated",
		Store: storeSummary{
			ID:          created.Store.ID,
			Domain:      created.Store.Domain,
			Status:      created.Store.Status,
			Namespace:   created.Store.Namespace,
			Credentials: created.Credentials,
		},
	})
}

func (h *storeHandlers) listStores(w http.ResponseWriter, r *http.Request) {
	annotated, err := h.orchestrator.ListStores(r.Context())
	if err != nil {
		h.writeOrchestratorError(w, err)

		return
	}

	stores := make([]v1alpha1.Store, len(annotated))
	for i, entry := range annotated {
		store := entry.Store
		store.Status = entry.LiveStatus
		stores[i] = store
	}

	writeJSON(w, http.StatusOK, listStoresResponse{Stores: stores})
}

func (h *storeHandlers) deleteStore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.orchestrator.DeleteStore(r.Context(), id)
	if err != nil {
		h.writeOrchestratorError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, deleteStoreResponse{
		Message: "Store deleted successfully",
		ID:      id,
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// writeOrchestratorError maps orchestrator error classes onto status codes:
// bad input is 400, unknown IDs are 404, in-flight conflicts are 409, and
// everything else (persistence, teardown) is 500. Internal failures carry a
// generic body; the underlying error stays on the operator channel.
func (h *storeHandlers) writeOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, v1alpha1.ErrDomainRequired):
		writeError(w, http.StatusBadRequest, "Domain is required")
	case errors.Is(err, registry.ErrStoreNotFound):
		writeError(w, http.StatusNotFound, "Store not found")
	case errors.Is(err, orchestrator.ErrWorkflowInFlight):
		writeError(w, http.StatusConflict, "A workflow is already in flight for this store")
	default:
		notify.Errorf(h.logOut, "request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(payload)
}
