package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storekeep/storekeep/pkg/client/helm"
	"github.com/storekeep/storekeep/pkg/httpapi"
	"github.com/storekeep/storekeep/pkg/k8s"
	"github.com/storekeep/storekeep/pkg/k8s/status"
	"github.com/storekeep/storekeep/pkg/svc/deployer"
	"github.com/storekeep/storekeep/pkg/svc/orchestrator"
	"github.com/storekeep/storekeep/pkg/svc/registry"
	"github.com/storekeep/storekeep/pkg/utils/notify"
)

// EnvPrefix namespaces the environment variables the serve command reads, so
// STOREKEEP_LISTEN overrides --listen and so on.
const EnvPrefix = "STOREKEEP"

const (
	defaultListen         = ":3000"
	defaultDataFile       = "data/stores.json"
	defaultChartPath      = "helm/store"
	defaultInstallTimeout = 5 * time.Minute
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	viperInstance := viper.New()
	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the store provisioning API server",
		Long: "Run the HTTP API that creates, lists, and deletes storefront " +
			"instances. Store records are persisted to a local JSON file; deployments " +
			"go through Helm against the configured cluster.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runServeCommand(cmd, viperInstance)
	}

	cmd.Flags().String("listen", defaultListen, "Address the API server listens on")
	cmd.Flags().String("data-file", defaultDataFile, "Path of the store registry snapshot file")
	cmd.Flags().String("chart", defaultChartPath, "Local path of the store Helm chart")
	cmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file (empty uses the default loading rules)")
	cmd.Flags().String("context", "", "Kubeconfig context to use")
	cmd.Flags().Duration("install-timeout", defaultInstallTimeout, "Timeout for a single store installation")

	for _, name := range []string{"listen", "data-file", "chart", "kubeconfig", "context", "install-timeout"} {
		_ = viperInstance.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runServeCommand(cmd *cobra.Command, viperInstance *viper.Viper) error {
	out := cmd.OutOrStdout()

	reg, err := registry.NewRegistry(viperInstance.GetString("data-file"))
	if err != nil {
		return fmt.Errorf("open store registry: %w", err)
	}

	kubeconfig := viperInstance.GetString("kubeconfig")
	kubeContext := viperInstance.GetString("context")

	helmClient, err := helm.NewClient(kubeconfig, kubeContext)
	if err != nil {
		return fmt.Errorf("create helm client: %w", err)
	}

	clientset, err := k8s.NewClientsetFromFlags(kubeconfig, kubeContext)
	if err != nil {
		return fmt.Errorf("create kubernetes client: %w", err)
	}

	driver, err := deployer.NewHelmDeployer(helmClient, clientset, deployer.Options{
		ChartPath:      viperInstance.GetString("chart"),
		InstallTimeout: viperInstance.GetDuration("install-timeout"),
	})
	if err != nil {
		return fmt.Errorf("create deployer: %w", err)
	}

	orch := orchestrator.NewOrchestrator(
		reg,
		driver,
		status.NewPodChecker(clientset),
		notify.NewReporter(out),
		orchestrator.Options{},
	)

	listen := viperInstance.GetString("listen")
	server := httpapi.NewServer(listen, orch, out)

	notify.Activityf(out, "serving store API on %s", listen)

	err = server.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run API server: %w", err)
	}

	return nil
}
