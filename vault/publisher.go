package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tm9657/jwk-vault/interfaces"
)

// PublicJWKPath is the distribution-store path of the public key in JWK form.
func PublicJWKPath(id interfaces.RecordID) string {
	return "jwk/" + id.String()
}

// PublicSPKIPath is the distribution-store path of the public key as an
// SPKI PEM block.
func PublicSPKIPath(id interfaces.RecordID) string {
	return "jwk/spki/" + id.String()
}

// Publisher mirrors the public half of a generated key pair to the
// distribution store. Artifacts have no password protection and are
// world-readable through the store's public address.
type Publisher struct {
	store interfaces.DistributionStore
	log   *slog.Logger
}

// NewPublisher creates a publisher writing to the given distribution store.
func NewPublisher(store interfaces.DistributionStore, log *slog.Logger) *Publisher {
	return &Publisher{store: store, log: log}
}

// Publish writes the public JWK and the SPKI PEM encoding under their
// deterministic paths.
func (p *Publisher) Publish(ctx context.Context, id interfaces.RecordID, publicJWK, spkiPEM []byte) error {
	if err := p.store.Put(ctx, PublicJWKPath(id), publicJWK, "application/json"); err != nil {
		return fmt.Errorf("failed to publish public JWK: %w", err)
	}
	if err := p.store.Put(ctx, PublicSPKIPath(id), spkiPEM, "application/x-pem-file"); err != nil {
		return fmt.Errorf("failed to publish SPKI encoding: %w", err)
	}

	p.log.Debug("Published public artifacts",
		slog.String("id", id.String()),
		slog.String("store", p.store.Name()))
	return nil
}

// Unpublish removes both artifacts. Missing artifacts are not an error, so
// unpublish is as idempotent as record deletion.
func (p *Publisher) Unpublish(ctx context.Context, id interfaces.RecordID) error {
	if err := p.store.Delete(ctx, PublicJWKPath(id)); err != nil {
		return fmt.Errorf("failed to remove public JWK: %w", err)
	}
	if err := p.store.Delete(ctx, PublicSPKIPath(id)); err != nil {
		return fmt.Errorf("failed to remove SPKI encoding: %w", err)
	}

	p.log.Debug("Removed public artifacts",
		slog.String("id", id.String()),
		slog.String("store", p.store.Name()))
	return nil
}
