package deployer

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
)

// MockDeployer is a hand-written testify mock of [Deployer] so the
// orchestrator can be tested without Helm or a cluster.
type MockDeployer struct {
	mock.Mock
}

var _ Deployer = (*MockDeployer)(nil)

// NewMockDeployer creates a MockDeployer that asserts its expectations when
// the test finishes.
func NewMockDeployer(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockDeployer {
	m := &MockDeployer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Install records the call and returns the configured error.
func (m *MockDeployer) Install(ctx context.Context, store v1alpha1.Store) error {
	args := m.Called(ctx, store)

	return args.Error(0)
}

// Uninstall records the call and returns the configured error.
func (m *MockDeployer) Uninstall(ctx context.Context, id, namespace string) error {
	args := m.Called(ctx, id, namespace)

	return args.Error(0)
}
