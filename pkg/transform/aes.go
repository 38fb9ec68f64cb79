package transform

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize = 16
	keySize  = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrEmptyPassphrase is returned by NewAESGCM for an empty passphrase.
	ErrEmptyPassphrase = errors.New("aesgcm: passphrase must not be empty")
	// ErrShortCiphertext is returned by Reverse for input shorter than the
	// salt, nonce and tag.
	ErrShortCiphertext = errors.New("aesgcm: ciphertext too short")
)

// aesGCMTransform seals data as salt | nonce | ciphertext. A fresh salt is
// drawn per message and the AES-256 key is derived from it with scrypt.
type aesGCMTransform struct {
	passphrase []byte
}

// NewAESGCM encrypts with AES-256-GCM under a key derived from passphrase.
func NewAESGCM(passphrase string) (Transform, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &aesGCMTransform{passphrase: []byte(passphrase)}, nil
}

func (e *aesGCMTransform) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(e.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: failed to create cipher block: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: failed to create GCM: %w", err)
	}
	return gcm, nil
}

func (e *aesGCMTransform) Apply(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("aesgcm apply (encrypt): failed to generate salt: %w", err)
	}
	gcm, err := e.aead(salt)
	if err != nil {
		return nil, err
	}
	out := make([]byte, saltSize+gcm.NonceSize(), saltSize+gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	copy(out, salt)
	nonce := out[saltSize:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("aesgcm apply (encrypt): failed to generate nonce: %w", err)
	}
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (e *aesGCMTransform) Reverse(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltSize {
		return nil, ErrShortCiphertext
	}
	gcm, err := e.aead(ciphertext[:saltSize])
	if err != nil {
		return nil, err
	}
	rest := ciphertext[saltSize:]
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrShortCiphertext
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("aesgcm reverse (decrypt): failed to open GCM message: %w", err)
	}
	return plaintext, nil
}
