package status

import (
	"context"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
)

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc func(ctx context.Context, namespace string) v1alpha1.Status

// GetStatus calls f.
func (f CheckerFunc) GetStatus(ctx context.Context, namespace string) v1alpha1.Status {
	return f(ctx, namespace)
}
