package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/tm9657/jwk-vault/interfaces"
)

// Factory creates storage backends from URI strings.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a new factory instance.
func NewFactory(log *slog.Logger) *Factory {
	return &Factory{log: log}
}

// KVStoreFor creates a record store from a location URI.
//
// Supported schemes:
//   - redis://[:password@]host:port[/db]?prefix=jwk
//   - vault://host:port/mount/path?token=...&tls=true
//   - file:///var/lib/jwk-vault/records
//   - mem:// (in-memory, development only)
func (f *Factory) KVStoreFor(locationURI string) (interfaces.KVStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "redis":
		password := ""
		if u.User != nil {
			password, _ = u.User.Password()
		}
		db := 0
		if p := strings.Trim(u.Path, "/"); p != "" {
			db, err = strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid redis db %q", interfaces.ErrInvalidLocationURI, p)
			}
		}
		return NewRedisKV(u.Host, password, db, u.Query().Get("prefix"), f.log)
	case "vault":
		scheme := "https"
		if u.Query().Get("tls") == "false" {
			scheme = "http"
		}
		parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: vault URI requires /mount/path", interfaces.ErrInvalidLocationURI)
		}
		address := fmt.Sprintf("%s://%s", scheme, u.Host)
		return NewVaultKV(address, u.Query().Get("token"), parts[0], parts[1], f.log)
	case "file":
		return NewFileKV(u.Path, f.log)
	case "mem":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported record store scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// DistributionStoreFor creates a distribution store from a location URI.
//
// Supported schemes:
//   - s3://[accessKey:secretKey@]bucket/prefix?region=us-east-1&endpoint=...
//   - ipfs://host:port/base-path
//   - file:///var/www/public
//   - mem:// (in-memory, development only)
func (f *Factory) DistributionStoreFor(locationURI string) (interfaces.DistributionStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "s3":
		accessKey := ""
		secretKey := ""
		if u.User != nil {
			accessKey = u.User.Username()
			secretKey, _ = u.User.Password()
		}
		region := u.Query().Get("region")
		if region == "" {
			region = "us-east-1"
		}
		prefix := strings.Trim(u.Path, "/")
		return NewS3Distribution(u.Host, prefix, region, u.Query().Get("endpoint"), accessKey, secretKey, f.log)
	case "ipfs":
		port := u.Port()
		if port == "" {
			port = "5001"
		}
		return NewIPFSDistribution(u.Hostname(), port, u.Path, f.log)
	case "file":
		return NewFileDistribution(u.Path, f.log)
	case "mem":
		return NewMemoryDistribution(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported distribution store scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}
