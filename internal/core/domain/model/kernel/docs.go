// Package kernel holds the value objects shared by every aggregate of the order
// tracker. UUID is the identifier type for identities, orders and audit entries;
// its zero value is invalid and must be produced by NewUUID, UUIDFromString or
// UUIDFromBytes.
package kernel
