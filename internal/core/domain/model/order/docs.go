// Package order implements the Order aggregate and its stage lifecycle.
//
// An order moves forward through a fixed sequence of stages:
//
//	Order Placed -> Buyer Associated -> Processing -> Packed -> Shipped -> Out for Delivery -> Delivered
//
// Key business rules:
//   - the buyer is set at most once and never cleared
//   - the seller is set exactly once, when the order leaves Buyer Associated
//   - every stage entered is stamped once; the stamped stages always form a
//     prefix of the sequence ending at the current stage
//   - Delivered is terminal
//   - a soft-deleted order stays readable but rejects every further mutation
//
// Each mutation bumps the aggregate version; stores use ExpectedVersion to
// reject writes based on a stale read.
package order
