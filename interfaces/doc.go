// Package interfaces defines the shared contracts between the vault core
// and its collaborators.
//
// The vault core only ever talks to storage through two narrow interfaces:
//
//   - KVStore: the backing store for encrypted vault records, with
//     conditional creation (PutIfAbsent) so concurrent creates for the same
//     identifier cannot overwrite each other.
//   - DistributionStore: the public object store that hosts published key
//     artifacts, written under deterministic paths and read by clients via
//     redirects, never through the vault service.
//
// RecordCache is the process-local read-through cache contract: insert on
// load, remove on delete, never update. It is an optimization only; record
// correctness never depends on cache freshness.
//
// Common error values are defined here so that backend implementations and
// the vault core agree on sentinel errors:
//
//   - ErrRecordNotFound: no record exists for the identifier
//   - ErrBackendUnavailable: storage backend is not accessible
//   - ErrInvalidLocationURI: storage location URI is malformed
package interfaces
