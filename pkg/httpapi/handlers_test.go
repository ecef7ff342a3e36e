package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
	"github.com/storekeep/storekeep/pkg/httpapi"
	"github.com/storekeep/storekeep/pkg/k8s/status"
	"github.com/storekeep/storekeep/pkg/svc/deployer"
	"github.com/storekeep/storekeep/pkg/svc/orchestrator"
	"github.com/storekeep/storekeep/pkg/svc/registry"
)

type nopReporter struct{}

func (nopReporter) Errorf(string, ...any)    {}
func (nopReporter) Activityf(string, ...any) {}

type fixture struct {
	handler      http.Handler
	orchestrator *orchestrator.Orchestrator
	registry     *registry.Registry
	deployer     *deployer.MockDeployer
	logs         *bytes.Buffer
}

func newFixture(t *testing.T, checker status.Checker) *fixture {
	t.Helper()

	reg, err := registry.NewRegistry(filepath.Join(t.TempDir(), "stores.json"))
	require.NoError(t, err)

	driver := deployer.NewMockDeployer(t)

	if checker == nil {
		checker = status.CheckerFunc(
			func(context.Context, string) v1alpha1.Status {
				return v1alpha1.StatusUnknown
			},
		)
	}

	orch := orchestrator.NewOrchestrator(reg, driver, checker, nopReporter{}, orchestrator.Options{})
	logs := &bytes.Buffer{}

	return &fixture{
		handler:      httpapi.NewRouter(orch, logs),
		orchestrator: orch,
		registry:     reg,
		deployer:     driver,
		logs:         logs,
	}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestHealth(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"status": "healthy"}, decodeBody(t, recorder))
}

func TestCreateStore_Accepted(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	fix.deployer.On("Install", mock.Anything, mock.Anything).Return(nil).Once()

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(
		http.MethodPost,
		"/stores",
		strings.NewReader(`{"domain":"shop.example.com"}`),
	))

	require.Equal(t, http.StatusAccepted, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "Store creation initiated", body["message"])

	store, ok := body["store"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "shop.example.com", store["domain"])
	assert.Equal(t, string(v1alpha1.StatusProvisioning), store["status"])

	id, ok := store["id"].(string)
	require.True(t, ok)
	assert.Equal(t, v1alpha1.NamespaceFor(id), store["namespace"])

	credentials, ok := store["credentials"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", credentials["username"])
	assert.NotEmpty(t, credentials["password"])
	assert.Contains(t, credentials["loginUrl"], "/wp-admin")

	require.NoError(t, fix.orchestrator.AwaitWorkflow(context.Background(), id))
}

func TestCreateStore_MissingDomain(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(
		http.MethodPost,
		"/stores",
		strings.NewReader(`{}`),
	))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Domain is required", decodeBody(t, recorder)["error"])
}

func TestCreateStore_MalformedBody(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(
		http.MethodPost,
		"/stores",
		strings.NewReader(`{"domain":`),
	))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, recorder)["error"])
}

func TestListStores_SubstitutesLiveStatus(t *testing.T) {
	t.Parallel()

	checker := status.CheckerFunc(func(_ context.Context, namespace string) v1alpha1.Status {
		if namespace == "store-s0000001" {
			return v1alpha1.StatusRunning
		}

		return v1alpha1.StatusUnknown
	})

	fix := newFixture(t, checker)

	for _, id := range []string{"s0000001", "s0000002"} {
		require.NoError(t, fix.registry.Put(v1alpha1.Store{
			ID:        id,
			Namespace: v1alpha1.NamespaceFor(id),
			Domain:    id + ".example.com",
			Status:    v1alpha1.StatusProvisioning,
		}))
	}

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/stores", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	stores, ok := decodeBody(t, recorder)["stores"].([]any)
	require.True(t, ok)
	require.Len(t, stores, 2)

	first, ok := stores[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s0000001", first["id"])
	assert.Equal(t, string(v1alpha1.StatusRunning), first["status"])

	second, ok := stores[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(v1alpha1.StatusProvisioning), second["status"])
}

func TestListStores_Empty(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/stores", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	stores, ok := decodeBody(t, recorder)["stores"].([]any)
	require.True(t, ok)
	assert.Empty(t, stores)
}

func TestDeleteStore_Success(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	require.NoError(t, fix.registry.Put(v1alpha1.Store{
		ID:        "s0000001",
		Namespace: "store-s0000001",
		Domain:    "shop.example.com",
		Status:    v1alpha1.StatusRunning,
	}))

	fix.deployer.On("Uninstall", mock.Anything, "s0000001", "store-s0000001").
		Return(nil).
		Once()

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/stores/s0000001", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, "Store deleted successfully", body["message"])
	assert.Equal(t, "s0000001", body["id"])
}

func TestDeleteStore_NotFound(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/stores/missing", nil))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Store not found", decodeBody(t, recorder)["error"])
}

func TestDeleteStore_TeardownFailure(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, nil)

	require.NoError(t, fix.registry.Put(v1alpha1.Store{
		ID:        "s0000001",
		Namespace: "store-s0000001",
		Domain:    "shop.example.com",
		Status:    v1alpha1.StatusRunning,
	}))

	fix.deployer.On("Uninstall", mock.Anything, "s0000001", "store-s0000001").
		Return(assert.AnError).
		Once()

	recorder := httptest.NewRecorder()
	fix.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/stores/s0000001", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	// The client gets a generic body; the underlying error is only logged.
	assert.Equal(t, "Internal server error", decodeBody(t, recorder)["error"])
	assert.Contains(t, fix.logs.String(), assert.AnError.Error())
}
