// internal/config/crypto.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

func newKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt encrypts a string using AES-GCM and hex-encodes nonce+ciphertext
func Encrypt(plainText string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, []byte(plainText), nil)), nil
}

// Decrypt reverses Encrypt
func Decrypt(cipherTextHex string, key []byte) (string, error) {
	cipherText, err := hex.DecodeString(cipherTextHex)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(cipherText) < nonceSize {
		return "", ErrCiphertextTooShort
	}
	plainText, err := gcm.Open(nil, cipherText[:nonceSize], cipherText[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plainText), nil
}

// decryptPasswords fills in-memory passwords. The keyring is only opened when
// some profile actually carries an encrypted secret.
func (c *Config) decryptPasswords() error {
	needed := false
	for _, p := range c.Profiles {
		if p.EncryptedPassword != "" || p.EncryptedSSHPassword != "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	key, err := MasterKey()
	if err != nil {
		return err
	}
	for i := range c.Profiles {
		p := &c.Profiles[i]
		if p.EncryptedPassword != "" {
			if p.Password, err = Decrypt(p.EncryptedPassword, key); err != nil {
				return fmt.Errorf("profile %s: password: %w", p.Name, err)
			}
		}
		if p.EncryptedSSHPassword != "" {
			if p.SSHPassword, err = Decrypt(p.EncryptedSSHPassword, key); err != nil {
				return fmt.Errorf("profile %s: ssh password: %w", p.Name, err)
			}
		}
	}
	return nil
}

// encryptPasswords refreshes the persisted form of every in-memory password.
func (c *Config) encryptPasswords() error {
	needed := false
	for _, p := range c.Profiles {
		if p.Password != "" || p.SSHPassword != "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	key, err := MasterKey()
	if err != nil {
		return err
	}
	for i := range c.Profiles {
		p := &c.Profiles[i]
		if p.Password != "" {
			if p.EncryptedPassword, err = Encrypt(p.Password, key); err != nil {
				return err
			}
		}
		if p.SSHPassword != "" {
			if p.EncryptedSSHPassword, err = Encrypt(p.SSHPassword, key); err != nil {
				return err
			}
		}
	}
	return nil
}
