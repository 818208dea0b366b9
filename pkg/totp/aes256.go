package totp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// EncryptionKeySize is the key length required for AES-256.
const EncryptionKeySize = 32

// EncryptSecret seals a shared secret with AES-256-GCM for persistence at
// rest. Returns base64(nonce || ciphertext).
func EncryptSecret(plainText string, key []byte) (string, error) {
	aead, err := newGCM(key, ErrFailedToEncryptSecret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrFailedToEncryptSecret, err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSecret reverses EncryptSecret. The input must be the base64 string
// produced by EncryptSecret with the same key.
func DecryptSecret(cipherTextBase64 string, key []byte) (string, error) {
	aead, err := newGCM(key, ErrFailedToDecryptSecret)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(cipherTextBase64)
	if err != nil {
		return "", errors.Join(ErrFailedToDecryptSecret, err)
	}

	nonceSize := aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.Join(ErrFailedToDecryptSecret, ErrCipherTooShort)
	}

	plainText, err := aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", errors.Join(ErrFailedToDecryptSecret, err)
	}

	return string(plainText), nil
}

// GenerateEncryptionKey creates a random 32-byte key suitable for AES-256.
func GenerateEncryptionKey() ([]byte, error) {
	key := make([]byte, EncryptionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrFailedToGenerateCryptoKey, err)
	}
	return key, nil
}

// DecodeEncryptionKey decodes a base64 configuration value into key bytes,
// enforcing the AES-256 key length.
func DecodeEncryptionKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Join(ErrInvalidEncryptionKeyLength, err)
	}
	if len(key) != EncryptionKeySize {
		return nil, ErrInvalidEncryptionKeyLength
	}
	return key, nil
}

func newGCM(key []byte, wrap error) (cipher.AEAD, error) {
	if len(key) != EncryptionKeySize {
		return nil, errors.Join(wrap, ErrInvalidEncryptionKeyLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(wrap, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(wrap, err)
	}
	return aead, nil
}
