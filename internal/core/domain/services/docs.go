// Package services provides domain services that do not belong to a single
// aggregate.
//
// The package includes:
//   - OrderCodeGenerator: issues the human-facing order codes ("ORD-<ULID>")
package services
