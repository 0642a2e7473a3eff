// Package services implements the driving port interfaces.
// Services contain the core pipeline logic (ingestion, retrieval,
// answering, health reporting) and orchestrate calls to driven ports
// (adapters).
package services
