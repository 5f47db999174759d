package interfaces

import (
	"context"
	"errors"
	"net/url"
)

// RecordID is the escaped identifier under which a vault record is stored.
// The raw, caller-supplied identifier is path-escaped so it is always safe
// to use as a storage key or URL path segment.
type RecordID string

// NewRecordID creates a record ID from a caller-supplied identifier.
// Returns an error if the identifier is empty.
func NewRecordID(raw string) (RecordID, error) {
	if raw == "" {
		return "", errors.New("empty record identifier")
	}
	return RecordID(url.PathEscape(raw)), nil
}

// String returns the escaped identifier.
func (id RecordID) String() string {
	return string(id)
}

// ExportMode selects the private-key export format returned to the caller.
type ExportMode string

const (
	// ExportJWK returns the key as a JSON Web Key document. This is the
	// default when no mode is given.
	ExportJWK ExportMode = "jwk"

	// ExportPEM returns the key as a PKCS#8 PEM block.
	ExportPEM ExportMode = "pem"
)

// ParseExportMode maps a request mode string to an export mode. Unknown
// values fall back to JWK, matching the service's historical behavior.
func ParseExportMode(s string) ExportMode {
	if s == string(ExportPEM) {
		return ExportPEM
	}
	return ExportJWK
}

var (
	// ErrRecordNotFound is returned when no record exists for an identifier.
	ErrRecordNotFound = errors.New("record not found")

	// ErrBackendUnavailable is returned when a storage backend is not accessible.
	// This could be due to network issues, authentication failures, or service outages.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a storage location URI is malformed or unsupported.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)

// KVStore persists encrypted vault records keyed by record ID.
//
// The store is the only source of truth for record existence. All writes go
// through PutIfAbsent so two concurrent creators for the same identifier
// cannot overwrite each other; the loser observes the winner's record.
type KVStore interface {
	// Get retrieves the raw serialized record for a key.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// PutIfAbsent stores value under key only if no value exists yet.
	// Returns true if the value was stored, false if a record already
	// existed (the value is left untouched in that case).
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)

	// Delete removes the record for a key. Deleting a nonexistent key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Available checks if the backend is accessible.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend.
	LocationURI() string
}

// DistributionStore holds world-readable published artifacts, addressed by
// deterministic paths. Clients read it directly through its public address;
// the vault service only ever writes and deletes.
type DistributionStore interface {
	// Put stores data under path with the given content type.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Delete removes the object at path. Deleting a nonexistent path
	// is not an error.
	Delete(ctx context.Context, path string) error

	// Available checks if the backend is accessible.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend.
	LocationURI() string
}

// RecordCache memoizes raw serialized records within a single process.
//
// The contract is deliberately narrow: entries are inserted when a record is
// loaded from the backing store, removed when the record is deleted, and
// never updated in place. Records are immutable once created, so a cached
// value can only ever be stale in the one way delete invalidation covers.
type RecordCache interface {
	Get(id RecordID) ([]byte, bool)
	Put(id RecordID, raw []byte)
	Remove(id RecordID)
}
