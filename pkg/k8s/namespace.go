package k8s

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siderolabs/go-retry/retry"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	// terminationPollInterval is how often namespace termination is re-checked.
	terminationPollInterval = 2 * time.Second
)

// errNamespaceStillTerminating signals that a deleted namespace has not
// finished terminating yet.
var errNamespaceStillTerminating = errors.New("namespace still terminating")

// DeleteNamespace removes the given namespace and everything in it. Deleting
// a namespace that does not exist succeeds, so teardown retries stay
// idempotent.
func DeleteNamespace(
	ctx context.Context,
	clientset kubernetes.Interface,
	name string,
) error {
	if name == "" {
		return ErrNamespaceNameEmpty
	}

	err := clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}

		return fmt.Errorf("delete namespace %q: %w", name, err)
	}

	return nil
}

// WaitForNamespaceTerminated polls until the namespace is gone or the timeout
// elapses. Namespace deletion is asynchronous on the server side; callers
// that need the name free for reuse must wait for termination explicitly.
func WaitForNamespaceTerminated(
	ctx context.Context,
	clientset kubernetes.Interface,
	name string,
	timeout time.Duration,
) error {
	if name == "" {
		return ErrNamespaceNameEmpty
	}

	err := retry.Constant(timeout, retry.WithUnits(terminationPollInterval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			_, getErr := clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
			if getErr != nil {
				if apierrors.IsNotFound(getErr) {
					return nil
				}

				return retry.ExpectedError(getErr)
			}

			return retry.ExpectedError(errNamespaceStillTerminating)
		})
	if err != nil {
		return fmt.Errorf("timeout waiting for namespace %q termination: %w", name, err)
	}

	return nil
}
