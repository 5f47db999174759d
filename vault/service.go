package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tm9657/jwk-vault/cryptoutils"
	"github.com/tm9657/jwk-vault/interfaces"
)

// ErrUnauthorized is returned when the supplied password does not match the
// stored verifier. It is the only error the service distinguishes for the
// caller; every integrity or storage failure surfaces as a generic error so
// cryptographic details never leak.
var ErrUnauthorized = errors.New("unauthorized")

// ExportedKey is private key material rendered in the caller's requested
// export format.
type ExportedKey struct {
	// Body is the serialized key: a JWK document or a PKCS#8 PEM block.
	Body []byte

	// ContentType is the HTTP content type matching Body.
	ContentType string
}

// Service implements the create-or-fetch state machine over vault records.
//
// Per identifier the states are ABSENT -> PRESENT -> ABSENT (post-delete);
// no other transitions exist. Creation is conditional: two concurrent
// creators for the same identifier race on PutIfAbsent and the loser falls
// back to the fetch path against the winner's record, so exactly one key
// pair survives per identifier.
type Service struct {
	records   interfaces.KVStore
	cache     interfaces.RecordCache
	publisher *Publisher
	log       *slog.Logger
}

// NewService creates a vault service.
//
// The cache is constructor-injected so it can be scoped per instance and
// disabled in tests (pass NopCache). Correctness never depends on it.
func NewService(records interfaces.KVStore, cache interfaces.RecordCache, publisher *Publisher, log *slog.Logger) *Service {
	return &Service{
		records:   records,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// CreateOrFetch is the single entry point for POST requests. If no record
// exists for id, it generates a key pair, seals the private key under a key
// derived from password, persists the record, publishes the public
// artifacts, and returns the private key. If a record exists, it verifies
// the password and returns the previously sealed private key.
//
// The returned bool reports whether a new record was created. A password
// mismatch on an existing record returns ErrUnauthorized.
func (s *Service) CreateOrFetch(ctx context.Context, id interfaces.RecordID, password string, mode interfaces.ExportMode) (*ExportedKey, bool, error) {
	rec, err := s.loadRecord(ctx, id)
	if err == nil {
		exported, err := s.open(rec, password, mode)
		return exported, false, err
	}
	if !errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load record: %w", err)
	}

	return s.create(ctx, id, password, mode)
}

// Delete removes the record and its published artifacts after verifying the
// password. Deleting a nonexistent record is a no-op success.
func (s *Service) Delete(ctx context.Context, id interfaces.RecordID, password string) error {
	rec, err := s.loadRecord(ctx, id)
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	if !VerifyPassword(password, rec.PasswordVerifier) {
		return ErrUnauthorized
	}

	if err := s.records.Delete(ctx, id.String()); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	// Invalidate before touching the distribution store so a failed
	// artifact removal cannot leave a stale PRESENT entry behind.
	s.cache.Remove(id)
	if err := s.publisher.Unpublish(ctx, id); err != nil {
		return err
	}

	s.log.Info("Deleted vault record", slog.String("id", id.String()))
	return nil
}

// Exists reports whether a record is PRESENT for id. No password is
// required and no key material is revealed.
func (s *Service) Exists(ctx context.Context, id interfaces.RecordID) (bool, error) {
	_, err := s.loadRecord(ctx, id)
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// create runs the ABSENT -> PRESENT transition.
func (s *Service) create(ctx context.Context, id interfaces.RecordID, password string, mode interfaces.ExportMode) (*ExportedKey, bool, error) {
	key, err := cryptoutils.GenerateSigningKeyPair()
	if err != nil {
		return nil, false, err
	}

	privateJWK, err := cryptoutils.PrivateKeyJWK(key)
	if err != nil {
		return nil, false, err
	}
	publicJWK, err := cryptoutils.PublicKeyJWK(&key.PublicKey)
	if err != nil {
		return nil, false, err
	}
	spkiPEM, err := cryptoutils.PublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, false, err
	}

	iv, err := NewIV()
	if err != nil {
		return nil, false, err
	}
	sealed, err := Seal(DeriveEncryptionKey(password), iv, privateJWK)
	if err != nil {
		return nil, false, fmt.Errorf("failed to seal private key: %w", err)
	}
	verifier, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	raw, err := NewRecord(verifier, iv, sealed).Encode()
	if err != nil {
		return nil, false, err
	}

	stored, err := s.records.PutIfAbsent(ctx, id.String(), raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to persist record: %w", err)
	}
	if !stored {
		// Lost the creation race. The winner's record is authoritative;
		// the key pair generated here is discarded.
		s.log.Info("Concurrent create detected, falling back to fetch",
			slog.String("id", id.String()))
		rec, err := s.loadRecord(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load record: %w", err)
		}
		exported, err := s.open(rec, password, mode)
		return exported, false, err
	}

	if err := s.publisher.Publish(ctx, id, publicJWK, spkiPEM); err != nil {
		return nil, false, err
	}

	s.log.Info("Created vault record", slog.String("id", id.String()))

	exported, err := s.exportPrivate(privateJWK, mode)
	return exported, true, err
}

// open verifies the password against an existing record and unseals the
// private key. Runs the PRESENT -> PRESENT fetch transition.
func (s *Service) open(rec *Record, password string, mode interfaces.ExportMode) (*ExportedKey, error) {
	if !VerifyPassword(password, rec.PasswordVerifier) {
		return nil, ErrUnauthorized
	}

	iv, err := rec.IVBytes()
	if err != nil {
		return nil, err
	}
	sealed, err := rec.SealedBytes()
	if err != nil {
		return nil, err
	}

	privateJWK, err := Open(DeriveEncryptionKey(password), iv, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed private key: %w", err)
	}

	return s.exportPrivate(privateJWK, mode)
}

// loadRecord reads the raw record through the cache and decodes it. Cache
// entries are inserted on load from the backing store, never on create.
func (s *Service) loadRecord(ctx context.Context, id interfaces.RecordID) (*Record, error) {
	if raw, ok := s.cache.Get(id); ok {
		return DecodeRecord(raw)
	}

	raw, err := s.records.Get(ctx, id.String())
	if err != nil {
		return nil, err
	}
	s.cache.Put(id, raw)

	return DecodeRecord(raw)
}

func (s *Service) exportPrivate(privateJWK []byte, mode interfaces.ExportMode) (*ExportedKey, error) {
	if mode != interfaces.ExportPEM {
		return &ExportedKey{Body: privateJWK, ContentType: "application/json"}, nil
	}

	key, err := cryptoutils.PrivateKeyFromJWK(privateJWK)
	if err != nil {
		return nil, err
	}
	pemData, err := cryptoutils.PrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	return &ExportedKey{Body: pemData, ContentType: "application/x-pem-file"}, nil
}
