// Package store implements EntityStore, a write-through client-side cache of
// named entity collections.
//
// The store never touches a collection until its Gateway confirms the
// corresponding call: fetch replaces the cached collection wholesale, create
// appends, update replaces positionally, delete removes by ID. A failed call
// leaves the cache exactly as it was. Every transition builds a new slice, so
// snapshots handed out earlier stay valid.
//
// Commands for the same collection are not ordered against each other; the
// store applies results in completion order. WithStrictOrdering discards a
// fetch result that a later-applied transition has overtaken.
package store
