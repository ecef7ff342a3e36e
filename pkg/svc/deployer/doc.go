// Package deployer renders per-store configuration and drives the Helm
// install and uninstall workflows for store releases.
//
// A store release is keyed by (releaseName=store ID, namespace). Install
// renders the full desired-state values payload, stages it in a temporary
// file, and hands it to the Helm client; Uninstall removes the release and
// then the isolation namespace. Rendered database credentials are fresh
// random values on every render and exist only for the duration of the
// install that consumes them.
package deployer
