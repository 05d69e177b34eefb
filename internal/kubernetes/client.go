package kubernetes

import (
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
)

type Clients struct {
	Kubernetes kubernetes.Interface
	Metrics    metricsclientset.Interface
}

func NewClients(cfg *config.Config, logger *slog.Logger) (*Clients, error) {
	restConfig, err := LoadRESTConfig(cfg.Kubeconfig, cfg.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDependencyMissing, err)
	}

	restConfig.Timeout = cfg.K8sTimeout

	k8sClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create k8s client: %w", err)
	}

	metricsClient, err := metricsclientset.NewForConfig(restConfig)
	if err != nil {
		logger.Warn("failed to create metrics client", "error", err)
		metricsClient = nil
	}

	clients := &Clients{Kubernetes: k8sClient}
	// keep the interface nil rather than holding a typed nil pointer
	if metricsClient != nil {
		clients.Metrics = metricsClient
	}
	return clients, nil
}

// LoadRESTConfig resolves the cluster the way kubectl does: an explicit
// kubeconfig path, then $KUBECONFIG and ~/.kube/config, then in-cluster.
func LoadRESTConfig(kubeconfigPath, contextName string) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
}
