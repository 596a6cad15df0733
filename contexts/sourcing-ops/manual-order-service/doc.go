// Package manualorderservice implements the manual sourcing order claim
// lifecycle: listing pending orders with lazy pricing backfill, exclusive
// (best-effort) claims, release/complete transitions, and the nightly sweep
// that reclaims abandoned claims.
//
// Domain and application logic stay decoupled from runtime/platform concerns
// through ports and adapter composition.
package manualorderservice
