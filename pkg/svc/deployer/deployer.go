package deployer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/yaml"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
	"github.com/storekeep/storekeep/pkg/client/helm"
	"github.com/storekeep/storekeep/pkg/k8s"
)

const valuesFileMode = 0o600

// Deployer installs and removes the workloads backing a store. Calls may
// block for seconds to minutes while the external deployer runs.
type Deployer interface {
	// Install brings up all resources for the store under its namespace.
	Install(ctx context.Context, store v1alpha1.Store) error
	// Uninstall removes the store's release and then its namespace. Both
	// steps are attempted; a failure in either is reported as overall
	// failure, and a partially completed removal is not rolled back. Retry is
	// the caller's responsibility.
	Uninstall(ctx context.Context, id, namespace string) error
}

// Options configures a HelmDeployer.
type Options struct {
	// ChartPath is the local path of the store chart.
	ChartPath string
	// TempDir is where rendered values files are staged. Empty means the
	// system temp directory.
	TempDir string
	// InstallTimeout bounds a single helm install. Zero uses the helm
	// client's default.
	InstallTimeout time.Duration
	// TerminationWait bounds the wait for namespace termination after
	// uninstall. Zero skips the wait.
	TerminationWait time.Duration
	// NewPassword overrides database credential generation. Nil uses
	// crypto/rand.
	NewPassword PasswordFunc
}

// HelmDeployer deploys stores with the Helm action API and removes their
// namespaces through the Kubernetes API.
type HelmDeployer struct {
	helm      helm.Interface
	clientset kubernetes.Interface
	opts      Options
}

var _ Deployer = (*HelmDeployer)(nil)

// NewHelmDeployer creates a deployer from a helm client and a clientset.
func NewHelmDeployer(
	helmClient helm.Interface,
	clientset kubernetes.Interface,
	opts Options,
) (*HelmDeployer, error) {
	if opts.ChartPath == "" {
		return nil, ErrChartPathRequired
	}

	return &HelmDeployer{
		helm:      helmClient,
		clientset: clientset,
		opts:      opts,
	}, nil
}

// Render produces the desired-state values for the store using this
// deployer's credential source.
func (d *HelmDeployer) Render(store v1alpha1.Store) (*Values, error) {
	return Render(store, d.opts.NewPassword)
}

// Install renders the store's values, stages them in a temporary file, and
// installs the chart as release <id> in the store's namespace. The staged
// file is removed after the call regardless of outcome.
func (d *HelmDeployer) Install(ctx context.Context, store v1alpha1.Store) error {
	values, err := d.Render(store)
	if err != nil {
		return fmt.Errorf("render values for store %s: %w", store.ID, err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal values for store %s: %w", store.ID, err)
	}

	valuesFile, err := d.stageValuesFile(store.ID, data)
	if err != nil {
		return err
	}

	// Best-effort cleanup; a leftover staging file is harmless.
	defer func() { _ = os.Remove(valuesFile) }()

	spec := &helm.ChartSpec{
		ReleaseName:     store.ID,
		ChartPath:       d.opts.ChartPath,
		Namespace:       store.Namespace,
		CreateNamespace: true,
		Timeout:         d.opts.InstallTimeout,
		ValueFiles:      []string{valuesFile},
	}

	_, err = d.helm.InstallChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("install store %s: %w", store.ID, err)
	}

	return nil
}

// Uninstall removes the Helm release and then requests removal of the whole
// isolation namespace.
func (d *HelmDeployer) Uninstall(ctx context.Context, id, namespace string) error {
	var errs []error

	uninstallErr := d.helm.UninstallRelease(ctx, id, namespace)
	if uninstallErr != nil {
		errs = append(errs, fmt.Errorf("uninstall release %s: %w", id, uninstallErr))
	}

	deleteErr := k8s.DeleteNamespace(ctx, d.clientset, namespace)
	if deleteErr != nil {
		errs = append(errs, deleteErr)
	}

	if deleteErr == nil && d.opts.TerminationWait > 0 {
		waitErr := k8s.WaitForNamespaceTerminated(ctx, d.clientset, namespace, d.opts.TerminationWait)
		if waitErr != nil {
			errs = append(errs, waitErr)
		}
	}

	return errors.Join(errs...)
}

func (d *HelmDeployer) stageValuesFile(id string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(d.opts.TempDir, "values-"+id+"-*.yaml")
	if err != nil {
		return "", fmt.Errorf("stage values for store %s: %w", id, err)
	}

	name := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(name)

		if writeErr != nil {
			return "", fmt.Errorf("write values for store %s: %w", id, writeErr)
		}

		return "", fmt.Errorf("close values for store %s: %w", id, closeErr)
	}

	chmodErr := os.Chmod(name, valuesFileMode)
	if chmodErr != nil {
		_ = os.Remove(name)

		return "", fmt.Errorf("restrict values file for store %s: %w", id, chmodErr)
	}

	return name, nil
}
