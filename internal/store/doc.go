// Package store defines the persistence interfaces consumed by the
// scheduling core, the sentinel errors they return, and the transaction
// helper shared by all implementations.
//
// Implementations live under internal/platform; services depend only on
// the interfaces here.
package store
