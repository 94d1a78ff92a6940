// Package audit holds the append-only trail of order mutations.
//
// Actions are a closed set. They are stored by kind (plus the target stage for
// stage changes) and only turned into text by Action.String.
package audit
