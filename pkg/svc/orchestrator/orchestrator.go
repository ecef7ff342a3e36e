package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/storekeep/storekeep/pkg/apis/store/v1alpha1"
	"github.com/storekeep/storekeep/pkg/cli/parallel"
	"github.com/storekeep/storekeep/pkg/k8s/status"
	"github.com/storekeep/storekeep/pkg/svc/deployer"
	"github.com/storekeep/storekeep/pkg/svc/registry"
)

const (
	defaultAdminUsername = "admin"
	defaultLoginPath     = "/wp-admin"
)

// Reporter receives operator-facing messages from the asynchronous workflows.
// Deployment failures are reported here and via the store's persisted status,
// never to the caller that initiated the creation: that call has already
// returned by the time the workflow fails.
type Reporter interface {
	Errorf(format string, args ...any)
	Activityf(format string, args ...any)
}

// CreateStoreRequest carries the caller-supplied fields for a new store.
type CreateStoreRequest struct {
	Domain     string
	StoreName  string
	AdminEmail string
}

// Credentials is the one-time credential projection returned on creation.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	LoginURL string `json:"loginUrl"`
}

// CreatedStore is the public projection returned by CreateStore before the
// deployment outcome is known.
type CreatedStore struct {
	Store       v1alpha1.Store `json:"store"`
	Credentials Credentials    `json:"credentials"`
}

// StoreWithStatus is one listing entry: the persisted record annotated with
// a live status where one could be determined.
type StoreWithStatus struct {
	v1alpha1.Store

	// LiveStatus is the point-in-time cluster status, falling back to the
	// persisted status when the live query carried no information.
	LiveStatus v1alpha1.Status `json:"liveStatus"`
}

// Options configures an Orchestrator.
type Options struct {
	// LoginURL is the admin login location handed back on creation. Empty
	// uses the local port-forward default.
	LoginURL string
	// StatusConcurrency bounds the parallel live-status queries during
	// listing. Zero or negative uses the executor default.
	StatusConcurrency int64
}

// Orchestrator owns store lifecycle state. It coordinates the registry, the
// deployment driver, and the status checker; all collaborators are passed in
// explicitly so tests can substitute doubles.
type Orchestrator struct {
	registry *registry.Registry
	deployer deployer.Deployer
	checker  status.Checker
	reporter Reporter
	executor *parallel.Executor
	loginURL string

	// mu guards inflight and lastErr. The registry has its own mutation
	// lock; this one only enforces the per-ID single-flight guarantee and
	// workflow bookkeeping.
	mu       sync.Mutex
	inflight map[string]chan struct{}
	lastErr  map[string]error
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(
	reg *registry.Registry,
	driver deployer.Deployer,
	checker status.Checker,
	reporter Reporter,
	opts Options,
) *Orchestrator {
	loginURL := opts.LoginURL
	if loginURL == "" {
		loginURL = "http://127.0.0.1:9090" + defaultLoginPath
	}

	return &Orchestrator{
		registry: reg,
		deployer: driver,
		checker:  checker,
		reporter: reporter,
		executor: parallel.NewExecutor(opts.StatusConcurrency),
		loginURL: loginURL,
		inflight: make(map[string]chan struct{}),
		lastErr:  make(map[string]error),
	}
}

// CreateStore registers a new store and launches its deploy workflow.
//
// The store record is persisted synchronously in provisioning status; the
// render-and-install workflow runs in the background after CreateStore
// returns. The returned projection carries the one-time admin credentials
// and login URL; the deployment outcome is only observable through later
// status reads.
func (o *Orchestrator) CreateStore(
	ctx context.Context,
	req CreateStoreRequest,
) (*CreatedStore, error) {
	if req.Domain == "" {
		return nil, fmt.Errorf("create store: %w", v1alpha1.ErrDomainRequired)
	}

	id := NewStoreID()

	password, err := deployer.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	store := v1alpha1.Store{
		ID:            id,
		Namespace:     v1alpha1.NamespaceFor(id),
		Domain:        req.Domain,
		StoreName:     req.StoreName,
		AdminEmail:    req.AdminEmail,
		AdminUsername: defaultAdminUsername,
		AdminPassword: password,
		Status:        v1alpha1.StatusProvisioning,
		CreatedAt:     time.Now().UTC(),
	}

	if store.StoreName == "" {
		store.StoreName = "Store " + id
	}

	if store.AdminEmail == "" {
		store.AdminEmail = "admin@" + req.Domain
	}

	putErr := o.registry.Put(store)
	if putErr != nil {
		return nil, fmt.Errorf("create store %s: %w", id, putErr)
	}

	done, acquired := o.acquireWorkflow(id)
	if !acquired {
		// A fresh UUID-backed ID cannot collide with an in-flight workflow.
		return nil, fmt.Errorf("create store %s: %w", id, ErrWorkflowInFlight)
	}

	o.reporter.Activityf("deploying store %s to namespace %s", id, store.Namespace)

	go o.runDeploy(store, done)

	return &CreatedStore{
		Store: store,
		Credentials: Credentials{
			Username: store.AdminUsername,
			Password: store.AdminPassword,
			LoginURL: o.loginURL,
		},
	}, nil
}

// ListStores returns every persisted store annotated with live status. Live
// queries run concurrently; a query that yields no information falls back to
// the persisted status for that store without affecting the others.
func (o *Orchestrator) ListStores(ctx context.Context) ([]StoreWithStatus, error) {
	stores := o.registry.List()
	annotated := make([]StoreWithStatus, len(stores))
	tasks := make([]parallel.Task, len(stores))

	for i, store := range stores {
		tasks[i] = func(ctx context.Context) error {
			live := o.checker.GetStatus(ctx, store.Namespace)
			if live == v1alpha1.StatusUnknown {
				live = store.Status
			}

			annotated[i] = StoreWithStatus{Store: store, LiveStatus: live}

			return nil
		}
	}

	err := o.executor.Execute(ctx, tasks...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return annotated, nil
}

// DeleteStore tears down the store's resources and removes its record.
//
// The record is removed only after teardown succeeds. On failure the record
// is restored to the status it had before the attempt, so the store remains
// visible and a retry of the deletion is safe.
func (o *Orchestrator) DeleteStore(ctx context.Context, id string) error {
	store, err := o.registry.Get(id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}

	done, acquired := o.acquireWorkflow(id)
	if !acquired {
		return fmt.Errorf("delete store %s: %w", id, ErrWorkflowInFlight)
	}

	defer func() {
		o.finishWorkflow(id, done)
	}()

	previous := store.Status

	statusErr := o.registry.SetStatus(id, v1alpha1.StatusDeleting)
	if statusErr != nil {
		return fmt.Errorf("delete store %s: %w", id, statusErr)
	}

	uninstallErr := o.deployer.Uninstall(ctx, id, store.Namespace)
	if uninstallErr != nil {
		o.recordWorkflowError(id, uninstallErr)

		restoreErr := o.registry.SetStatus(id, previous)
		if restoreErr != nil {
			o.reporter.Errorf("failed to restore status of store %s: %v", id, restoreErr)
		}

		return fmt.Errorf("delete store %s: %w", id, uninstallErr)
	}

	removeErr := o.registry.Remove(id)
	if removeErr != nil {
		return fmt.Errorf("delete store %s: %w", id, removeErr)
	}

	o.recordWorkflowError(id, nil)
	o.reporter.Activityf("store %s removed", id)

	return nil
}

// AwaitWorkflow blocks until the most recent workflow for the store ID has
// completed, then returns its outcome. It exists so callers and tests can
// synchronize on the otherwise fire-and-forget deploy workflow instead of
// racing it.
func (o *Orchestrator) AwaitWorkflow(ctx context.Context, id string) error {
	o.mu.Lock()
	done, running := o.inflight[id]

	if !running {
		err, seen := o.lastErr[id]
		o.mu.Unlock()

		if !seen {
			return fmt.Errorf("await workflow %s: %w", id, ErrNoWorkflow)
		}

		return err
	}

	o.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("await workflow %s: %w", id, ctx.Err())
	}

	err, _ := o.LastWorkflowError(id)

	return err
}

// LastWorkflowError returns the outcome of the most recently completed
// workflow for the store ID, and whether one has completed at all.
func (o *Orchestrator) LastWorkflowError(id string) (error, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	err, seen := o.lastErr[id]

	return err, seen
}

// runDeploy is the asynchronous deploy workflow: render, install, then
// transition the persisted status to running or failed. Failures go to the
// reporter and the workflow record; the creation call has already returned.
func (o *Orchestrator) runDeploy(store v1alpha1.Store, done chan struct{}) {
	defer o.finishWorkflow(store.ID, done)

	// The workflow outlives the request that spawned it, so it runs on its
	// own context rather than the request's.
	installErr := o.deployer.Install(context.Background(), store)
	if installErr != nil {
		o.recordWorkflowError(store.ID, installErr)
		o.reporter.Errorf("failed to deploy store %s: %v", store.ID, installErr)

		statusErr := o.registry.SetStatus(store.ID, v1alpha1.StatusFailed)
		if statusErr != nil {
			o.reporter.Errorf("failed to mark store %s failed: %v", store.ID, statusErr)
		}

		return
	}

	o.recordWorkflowError(store.ID, nil)

	statusErr := o.registry.SetStatus(store.ID, v1alpha1.StatusRunning)
	if statusErr != nil {
		o.reporter.Errorf("failed to mark store %s running: %v", store.ID, statusErr)

		return
	}

	o.reporter.Activityf("store %s deployed", store.ID)
}

// acquireWorkflow claims the single-flight slot for a store ID. It returns
// the completion channel and false when another workflow already holds the
// slot.
func (o *Orchestrator) acquireWorkflow(id string) (chan struct{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, running := o.inflight[id]
	if running {
		return nil, false
	}

	done := make(chan struct{})
	o.inflight[id] = done

	return done, true
}

func (o *Orchestrator) finishWorkflow(id string, done chan struct{}) {
	o.mu.Lock()
	delete(o.inflight, id)
	o.mu.Unlock()

	close(done)
}

func (o *Orchestrator) recordWorkflowError(id string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.lastErr[id] = err
}
