// Package common holds logging setup and build metadata shared across the
// service binaries.
package common

// PackageName tags metrics and logs emitted by this service.
const PackageName = "jwk_vault"

// Version is set at build time via -ldflags.
var Version = "dev"
