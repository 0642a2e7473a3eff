// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): persistence, text extraction, and the
// external embedding and generation services.
package driven
