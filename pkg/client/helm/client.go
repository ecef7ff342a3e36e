package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	helmv4action "helm.sh/helm/v4/pkg/action"
	helmv4loader "helm.sh/helm/v4/pkg/chart/loader"
	chartv2 "helm.sh/helm/v4/pkg/chart/v2"
	helmv4cli "helm.sh/helm/v4/pkg/cli"
	helmv4kube "helm.sh/helm/v4/pkg/kube"
	v1 "helm.sh/helm/v4/pkg/release/v1"
	"sigs.k8s.io/yaml"
)

// DefaultTimeout defines the fallback Helm chart installation timeout.
const DefaultTimeout = 5 * time.Minute

var (
	errReleaseNameRequired = errors.New("helm: release name is required")
	errChartSpecRequired   = errors.New("helm: chart spec is required")
	errChartPathRequired   = errors.New("helm: chart path is required")
)

// ChartSpec describes a chart installation request for a store release.
// Charts are loaded from a local path; values are merged from value files
// first, then inline YAML, later sources overriding earlier ones.
type ChartSpec struct {
	ReleaseName string
	ChartPath   string
	Namespace   string

	CreateNamespace bool
	Wait            bool
	Timeout         time.Duration

	ValuesYaml string
	ValueFiles []string
}

// ReleaseInfo captures metadata about a Helm release after an operation.
type ReleaseInfo struct {
	Name       string
	Namespace  string
	Revision   int
	Status     string
	Chart      string
	AppVersion string
	Updated    time.Time
	Notes      string
}

// Interface defines the subset of Helm functionality required by Storekeep.
type Interface interface {
	InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
	UninstallRelease(ctx context.Context, releaseName, namespace string) error
}

// Client represents the default helm implementation used by Storekeep.
//
// The action configuration and env settings hold per-namespace state that is
// re-targeted on every call, so install and uninstall operations are
// serialized through an internal mutex. Callers may share one Client across
// concurrent workflows.
type Client struct {
	mu           sync.Mutex
	actionConfig *helmv4action.Configuration
	settings     *helmv4cli.EnvSettings
	kubeConfig   string
	kubeContext  string
}

var _ Interface = (*Client)(nil)

// NewClient creates a Helm client using the provided kubeconfig and context.
func NewClient(kubeConfig, kubeContext string) (*Client, error) {
	settings := helmv4cli.New()
	if kubeConfig != "" {
		settings.KubeConfig = kubeConfig
	}

	if kubeContext != "" {
		settings.KubeContext = kubeContext
	}

	actionConfig := new(helmv4action.Configuration)

	initErr := actionConfig.Init(
		settings.RESTClientGetter(),
		settings.Namespace(),
		os.Getenv("HELM_DRIVER"),
	)
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", initErr)
	}

	return &Client{
		actionConfig: actionConfig,
		settings:     settings,
		kubeConfig:   kubeConfig,
		kubeContext:  kubeContext,
	}, nil
}

// InstallChart installs a Helm chart using the provided specification.
func (c *Client) InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	if spec == nil {
		return nil, errChartSpecRequired
	}

	if spec.ReleaseName == "" {
		return nil, errReleaseNameRequired
	}

	if spec.ChartPath == "" {
		return nil, errChartPathRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cleanup, err := c.switchNamespace(spec.Namespace)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rel, err := c.performInstall(ctx, spec)
	if err != nil {
		return nil, err
	}

	return releaseToInfo(rel), nil
}

// UninstallRelease removes a Helm release by name within the provided namespace.
func (c *Client) UninstallRelease(ctx context.Context, releaseName, namespace string) error {
	if releaseName == "" {
		return errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("uninstall release context cancelled: %w", ctxErr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cleanup, err := c.switchNamespace(namespace)
	if err != nil {
		return err
	}
	defer cleanup()

	client := helmv4action.NewUninstall(c.actionConfig)
	client.KeepHistory = false

	_, uninstallErr := client.Run(releaseName)
	if uninstallErr != nil {
		return fmt.Errorf("uninstall release %q: %w", releaseName, uninstallErr)
	}

	return nil
}

func (c *Client) performInstall(ctx context.Context, spec *ChartSpec) (*v1.Release, error) {
	client := helmv4action.NewInstall(c.actionConfig)
	client.ReleaseName = spec.ReleaseName
	client.Namespace = spec.Namespace
	client.CreateNamespace = spec.CreateNamespace

	if spec.Wait {
		client.WaitStrategy = helmv4kube.StatusWatcherStrategy
	}

	client.Timeout = spec.Timeout
	if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	chartInterface, err := helmv4loader.Load(spec.ChartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", spec.ChartPath, err)
	}

	chart, ok := chartInterface.(*chartv2.Chart)
	if !ok {
		return nil, fmt.Errorf("unexpected chart type: %T", chartInterface)
	}

	vals, err := mergeValues(spec)
	if err != nil {
		return nil, err
	}

	releaser, err := client.RunWithContext(ctx, chart, vals)
	if err != nil {
		return nil, fmt.Errorf("install release %q: %w", spec.ReleaseName, err)
	}

	if rel, ok := releaser.(*v1.Release); ok {
		return rel, nil
	}

	return nil, fmt.Errorf("unexpected release type: %T", releaser)
}

func mergeValues(spec *ChartSpec) (map[string]interface{}, error) {
	base := map[string]interface{}{}

	for _, filePath := range spec.ValueFiles {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file %s: %w", filePath, err)
		}

		currentMap := map[string]interface{}{}

		err = yaml.Unmarshal(data, &currentMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", filePath, err)
		}

		base = mergeMaps(base, currentMap)
	}

	if spec.ValuesYaml != "" {
		currentMap := map[string]interface{}{}

		err := yaml.Unmarshal([]byte(spec.ValuesYaml), &currentMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse inline values: %w", err)
		}

		base = mergeMaps(base, currentMap)
	}

	return base, nil
}

func mergeMaps(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k, v := range a {
		out[k] = v
	}

	for k, v := range b {
		if v, ok := v.(map[string]interface{}); ok {
			if bv, ok := out[k]; ok {
				if bv, ok := bv.(map[string]interface{}); ok {
					out[k] = mergeMaps(bv, v)

					continue
				}
			}
		}

		out[k] = v
	}

	return out
}

// switchNamespace re-targets the shared action configuration at the given
// namespace and returns a cleanup that restores the previous one. The caller
// must hold c.mu for the full switch-operate-restore cycle.
func (c *Client) switchNamespace(namespace string) (func(), error) {
	if namespace == "" {
		return func() {}, nil
	}

	previousNamespace := c.settings.Namespace()
	if previousNamespace == namespace {
		return func() {}, nil
	}

	c.settings.SetNamespace(namespace)

	reinitErr := c.actionConfig.Init(
		c.settings.RESTClientGetter(),
		namespace,
		os.Getenv("HELM_DRIVER"),
	)
	if reinitErr != nil {
		c.settings.SetNamespace(previousNamespace)
		_ = c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previousNamespace,
			os.Getenv("HELM_DRIVER"),
		)

		return nil, fmt.Errorf("failed to set helm namespace %q: %w", namespace, reinitErr)
	}

	return func() {
		c.settings.SetNamespace(previousNamespace)
		_ = c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previousNamespace,
			os.Getenv("HELM_DRIVER"),
		)
	}, nil
}

func releaseToInfo(rel *v1.Release) *ReleaseInfo {
	if rel == nil {
		return nil
	}

	return &ReleaseInfo{
		Name:       rel.Name,
		Namespace:  rel.Namespace,
		Revision:   rel.Version,
		Status:     rel.Info.Status.String(),
		Chart:      rel.Chart.Metadata.Name,
		AppVersion: rel.Chart.Metadata.AppVersion,
		Updated:    rel.Info.LastDeployed,
		Notes:      rel.Info.Notes,
	}
}
