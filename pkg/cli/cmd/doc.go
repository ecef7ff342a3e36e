// Package cmd provides the command-line interface for Storekeep.
//
// This package contains the root command and the serve subcommand, which
// wires the registry, the Helm deployer, and the status checker into the
// HTTP API server.
package cmd
