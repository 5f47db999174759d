package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/tm9657/jwk-vault/interfaces"
)

// VaultKV implements the record store on HashiCorp Vault's KV v2 secrets
// engine. The check-and-set option with cas=0 provides the conditional
// creation semantics the vault service requires.
type VaultKV struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultKV creates a Vault-backed record store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault authentication token
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "jwk-records")
//   - log: structured logger
func NewVaultKV(address, token, mountPath, dataPath string, log *slog.Logger) (*VaultKV, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.Timeout = 30 * time.Second

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(token)

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultKV{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// Get retrieves the raw record for a key using the KV v2 read API.
func (b *VaultKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	path := b.secretPath("data", key)

	secret, err := b.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		b.log.Error("Failed to read from Vault",
			slog.String("path", path),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrRecordNotFound
	}

	// KV v2 wraps the payload in a "data" map.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}
	record, ok := data["record"].(string)
	if !ok {
		return nil, fmt.Errorf("record key not found in Vault data")
	}

	b.log.Debug("Fetched record from Vault",
		slog.String("key", key),
		slog.Duration("duration", time.Since(start)))

	return []byte(record), nil
}

// PutIfAbsent stores value only if no record exists for key. The KV v2
// cas=0 option makes the write fail when any version already exists.
func (b *VaultKV) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	path := b.secretPath("data", key)

	_, err := b.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			"record": string(value),
		},
		"options": map[string]interface{}{
			"cas": 0,
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "check-and-set") {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("Stored record in Vault", slog.String("key", key))
	return true, nil
}

// Delete removes the record and all its version metadata.
func (b *VaultKV) Delete(ctx context.Context, key string) error {
	path := b.secretPath("metadata", key)

	if _, err := b.client.Logical().DeleteWithContext(ctx, path); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	return nil
}

// Available checks if the Vault server is reachable and unsealed.
func (b *VaultKV) Available(ctx context.Context) bool {
	health, err := b.client.Sys().HealthWithContext(ctx)
	if err != nil {
		b.log.Warn("Vault backend unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this storage backend.
func (b *VaultKV) Name() string {
	return fmt.Sprintf("vault-%s", b.mountPath)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *VaultKV) LocationURI() string { return b.locationURI }

func (b *VaultKV) secretPath(op, key string) string {
	return fmt.Sprintf("%s/%s/%s/%s", b.mountPath, op, b.dataPath, key)
}
