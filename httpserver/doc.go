// Package httpserver provides the HTTP transport for the vault service.
//
// # Protected routes (Authorization header must equal the static API key)
//
//	POST   /secure/{id}[/{mode}]  create or fetch a key pair; body {"password": string}
//	DELETE /secure/{id}           delete the record and published artifacts
//	GET    /secure/{id}           existence probe, no password required
//
// The mode segment selects the private-key export format: "pem" returns a
// PKCS#8 PEM block, anything else (including no mode) the JWK document.
//
// # Public routes
//
//	GET /               informational page
//	GET /{id}[/{mode}]  301 redirect to the distribution store's public
//	                    address ("pem"/"spki" selects the SPKI encoding)
//
// Operational endpoints (/livez, /readyz, /drain, /undrain, optional
// /debug pprof) and a separate Prometheus listener follow the usual
// service conventions.
package httpserver
