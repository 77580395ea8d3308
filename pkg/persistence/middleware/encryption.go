package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/ports"
)

// EnvelopeKey is the single entry an encrypted snapshot carries.
const EnvelopeKey = "__encrypted__"

// ErrMissingEnvelope is returned when loading a snapshot that was not encrypted.
var ErrMissingEnvelope = errors.New("snapshot is missing encrypted envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new snapshots. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried when decryption with ActiveKey fails, for key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SnapshotStore
	config EncryptionConfig
}

// NewEncryption returns a middleware that seals blackboard entries with AES-GCM.
// Tree id, tick, state and time stay readable so stores can still index snapshots.
func NewEncryption(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, treeID string, snap *ports.Snapshot) error {
	plain, err := json.Marshal(snap.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}
	sealed, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt entries: %w", err)
	}

	envelope := *snap
	envelope.Entries = []blackboard.Entry{{
		Key:   EnvelopeKey,
		Value: blackboard.StringValue(base64.StdEncoding.EncodeToString(sealed)),
	}}
	return m.next.Save(ctx, treeID, &envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, treeID string) (*ports.Snapshot, error) {
	envelope, err := m.next.Load(ctx, treeID)
	if err != nil {
		return nil, err
	}
	if len(envelope.Entries) != 1 || envelope.Entries[0].Key != EnvelopeKey {
		return nil, ErrMissingEnvelope
	}
	encoded, ok := envelope.Entries[0].Value.Any().(string)
	if !ok {
		return nil, ErrMissingEnvelope
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(sealed, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
	}

	snap := *envelope
	snap.Entries = nil
	if err := json.Unmarshal(plain, &snap.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted entries: %w", err)
	}
	return &snap, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, treeID string) error {
	return m.next.Delete(ctx, treeID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func encrypt(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
