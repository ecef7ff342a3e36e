package k8s_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekeep/storekeep/pkg/k8s"
)

// writeKubeconfig writes a minimal single-context kubeconfig and returns its path.
func writeKubeconfig(t *testing.T) string {
	t.Helper()

	kubeconfigPath := filepath.Join(t.TempDir(), "kubeconfig")

	content := `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: orchestrator-cluster
contexts:
- context:
    cluster: orchestrator-cluster
    user: orchestrator-user
  name: orchestrator-context
current-context: orchestrator-context
users:
- name: orchestrator-user
  user:
    token: fake-token
`

	err := os.WriteFile(kubeconfigPath, []byte(content), 0o600)
	require.NoError(t, err)

	return kubeconfigPath
}

func TestBuildRESTConfig_EmptyKubeconfig(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig("", "")

	require.Error(t, err)
	assert.Nil(t, config)
	assert.ErrorIs(t, err, k8s.ErrKubeconfigPathEmpty)
}

func TestBuildRESTConfig_NonExistentPath(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig("/nonexistent/path/to/kubeconfig", "")

	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}

func TestBuildRESTConfig_InvalidContent(t *testing.T) {
	t.Parallel()

	kubeconfigPath := filepath.Join(t.TempDir(), "invalid-kubeconfig")

	err := os.WriteFile(kubeconfigPath, []byte("this is not valid yaml {{{"), 0o600)
	require.NoError(t, err)

	config, err := k8s.BuildRESTConfig(kubeconfigPath, "")

	require.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}

func TestBuildRESTConfig_ValidKubeconfig(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig(writeKubeconfig(t), "")

	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, "https://127.0.0.1:6443", config.Host)
}

func TestBuildRESTConfig_UnknownContext(t *testing.T) {
	t.Parallel()

	config, err := k8s.BuildRESTConfig(writeKubeconfig(t), "no-such-context")

	require.Error(t, err)
	assert.Nil(t, config)
}

func TestGetRESTConfig_UsesKubeconfigEnv(t *testing.T) {
	t.Setenv("KUBECONFIG", writeKubeconfig(t))

	config, err := k8s.GetRESTConfig("")

	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, "https://127.0.0.1:6443", config.Host)
}

func TestGetRESTConfig_UnknownContext(t *testing.T) {
	t.Setenv("KUBECONFIG", writeKubeconfig(t))

	config, err := k8s.GetRESTConfig("no-such-context")

	require.Error(t, err)
	assert.Nil(t, config)
}

func TestNewClientsetFromFlags_ExplicitPath(t *testing.T) {
	t.Parallel()

	clientset, err := k8s.NewClientsetFromFlags(writeKubeconfig(t), "")

	require.NoError(t, err)
	assert.NotNil(t, clientset)
}

func TestNewClientsetFromFlags_FallsBackToLoadingRules(t *testing.T) {
	t.Setenv("KUBECONFIG", writeKubeconfig(t))

	clientset, err := k8s.NewClientsetFromFlags("", "")

	require.NoError(t, err)
	assert.NotNil(t, clientset)
}
