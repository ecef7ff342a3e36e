package helm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockInterface is a hand-written testify mock of [Interface] for consumers
// that need to simulate Helm success and failure without a cluster.
type MockInterface struct {
	mock.Mock
}

var _ Interface = (*MockInterface)(nil)

// NewMockInterface creates a MockInterface that asserts its expectations when
// the test finishes.
func NewMockInterface(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockInterface {
	m := &MockInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// InstallChart records the call and returns the configured release info and error.
func (m *MockInterface) InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	args := m.Called(ctx, spec)

	info, _ := args.Get(0).(*ReleaseInfo)

	return info, args.Error(1)
}

// UninstallRelease records the call and returns the configured error.
func (m *MockInterface) UninstallRelease(ctx context.Context, releaseName, namespace string) error {
	args := m.Called(ctx, releaseName, namespace)

	return args.Error(0)
}
