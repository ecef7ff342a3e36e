package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")

// ErrNamespaceNameEmpty is returned when a namespace operation is requested
// without a namespace name.
var ErrNamespaceNameEmpty = errors.New("namespace name is empty")
