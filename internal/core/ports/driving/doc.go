// Package driving provides interfaces for primary/inbound ports: the
// operations the CLI and interactive front ends invoke on the core.
package driving
