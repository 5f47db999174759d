// Package storage provides the two storage backends the vault depends on,
// each with pluggable implementations selected by location URI.
//
// # Record stores (KVStore)
//
// The record store holds encrypted vault records keyed by escaped record
// ID. All implementations provide conditional creation so concurrent
// creates for the same identifier are serialized by the backend:
//
//   - redis://[:password@]host:port[/db]?prefix=jwk  (SETNX)
//   - vault://host:port/mount/path?token=...          (KV v2, cas=0)
//   - file:///var/lib/jwk-vault/records               (O_EXCL)
//   - mem://                                          (development/tests)
//
// # Distribution stores (DistributionStore)
//
// The distribution store hosts world-readable published artifacts under
// deterministic paths. Reads go directly to the store's public address;
// the service only writes and deletes:
//
//   - s3://[accessKey:secretKey@]bucket/prefix?region=...  (public-read ACL)
//   - ipfs://host:port/base-path                           (MFS file API)
//   - file:///var/www/public
//   - mem://
//
// Use Factory to construct either kind from its URI.
package storage
