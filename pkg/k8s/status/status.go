package status

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
)

// phaseCrashLoopBackOff is checked as a pod phase for parity with the system
// this replaces. Clusters normally report CrashLoopBackOff as a container
// wait reason rather than a top-level phase, so this branch rarely fires; it
// is kept deliberately rather than silently corrected.
const phaseCrashLoopBackOff = corev1.PodPhase("CrashLoopBackOff")

// Checker reduces the live runtime state of a namespace to a coarse store
// lifecycle signal.
type Checker interface {
	// GetStatus returns a point-in-time status for the namespace's workloads.
	// It never returns an error: a failed query degrades to StatusUnknown and
	// a missing namespace yields StatusNotFound. Callers must treat both as
	// "no information", not as lifecycle transitions.
	GetStatus(ctx context.Context, namespace string) v1alpha1.Status
}

// PodChecker derives store status from the pods in a namespace.
type PodChecker struct {
	clientset kubernetes.Interface
}

var _ Checker = (*PodChecker)(nil)

// NewPodChecker creates a Checker backed by the given clientset.
func NewPodChecker(clientset kubernetes.Interface) *PodChecker {
	return &PodChecker{clientset: clientset}
}

// GetStatus lists the pods in the namespace and reduces them:
//   - no pods scheduled yet: provisioning
//   - all pods running with an explicit Ready condition: running
//   - any pod in a failed or crash-looping phase: failed
//   - anything else: provisioning
//   - namespace missing: not_found; any other query error: unknown
func (c *PodChecker) GetStatus(ctx context.Context, namespace string) v1alpha1.Status {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return v1alpha1.StatusNotFound
		}

		return v1alpha1.StatusUnknown
	}

	if len(pods.Items) == 0 {
		return v1alpha1.StatusProvisioning
	}

	allRunning := true

	for i := range pods.Items {
		pod := &pods.Items[i]

		if pod.Status.Phase == corev1.PodFailed || pod.Status.Phase == phaseCrashLoopBackOff {
			return v1alpha1.StatusFailed
		}

		if pod.Status.Phase != corev1.PodRunning || !isPodReady(pod) {
			allRunning = false
		}
	}

	if allRunning {
		return v1alpha1.StatusRunning
	}

	return v1alpha1.StatusProvisioning
}

// isPodReady returns true if the pod has condition Ready=True.
func isPodReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}

	return false
}
