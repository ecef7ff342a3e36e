// Package k8s provides Kubernetes client configuration and namespace helpers.
//
// This package offers the cluster plumbing shared by the deployment driver
// and the status client: REST config building from kubeconfig files,
// clientset creation, and namespace removal with optional termination
// polling.
//
// For live store status reduction, see the [status] sub-package.
package k8s
