package status_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
	"github.com/storekeep/storekeep/pkg/k8s/status"
)

const testNamespace = "store-s1234567"

func newPod(name string, phase corev1.PodPhase, ready bool) *corev1.Pod {
	readyStatus := corev1.ConditionFalse
	if ready {
		readyStatus = corev1.ConditionTrue
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: testNamespace,
		},
		Status: corev1.PodStatus{
			Phase: phase,
			Conditions: []corev1.PodCondition{
				{Type: corev1.PodReady, Status: readyStatus},
			},
		},
	}
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pods []runtime.Object
		want v1alpha1.Status
	}{
		{
			name: "no pods scheduled yet",
			pods: nil,
			want: v1alpha1.StatusProvisioning,
		},
		{
			name: "all pods running and ready",
			pods: []runtime.Object{
				newPod("wordpress-0", corev1.PodRunning, true),
				newPod("mysql-0", corev1.PodRunning, true),
			},
			want: v1alpha1.StatusRunning,
		},
		{
			name: "running but not ready",
			pods: []runtime.Object{
				newPod("wordpress-0", corev1.PodRunning, false),
			},
			want: v1alpha1.StatusProvisioning,
		},
		{
			name: "pending pod",
			pods: []runtime.Object{
				newPod("wordpress-0", corev1.PodPending, false),
			},
			want: v1alpha1.StatusProvisioning,
		},
		{
			name: "one pod failed",
			pods: []runtime.Object{
				newPod("wordpress-0", corev1.PodRunning, true),
				newPod("mysql-0", corev1.PodFailed, false),
			},
			want: v1alpha1.StatusFailed,
		},
		{
			name: "crash-looping phase",
			pods: []runtime.Object{
				newPod("wordpress-0", corev1.PodPhase("CrashLoopBackOff"), false),
			},
			want: v1alpha1.StatusFailed,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			clientset := fake.NewClientset(testCase.pods...)
			checker := status.NewPodChecker(clientset)

			got := checker.GetStatus(context.Background(), testNamespace)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestGetStatus_NamespaceNotFound(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()
	clientset.PrependReactor(
		"list",
		"pods",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, apierrors.NewNotFound(
				schema.GroupResource{Resource: "namespaces"},
				testNamespace,
			)
		},
	)

	checker := status.NewPodChecker(clientset)

	got := checker.GetStatus(context.Background(), testNamespace)
	assert.Equal(t, v1alpha1.StatusNotFound, got)
}

func TestGetStatus_QueryErrorDegradesToUnknown(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()
	clientset.PrependReactor(
		"list",
		"pods",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, errors.New("connection refused")
		},
	)

	checker := status.NewPodChecker(clientset)

	got := checker.GetStatus(context.Background(), testNamespace)
	assert.Equal(t, v1alpha1.StatusUnknown, got)
}
