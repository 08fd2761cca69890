// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"

	"github.com/tidwall/gjson"
)

// Envelope parameters for newly encrypted snapshots. Decrypt honors whatever
// parameters the document carries.
const (
	encryptSaltLen    = 16
	encryptIterations = 600000
	encryptKeyLen     = 32
)

// keyProviderConfig is the PBKDF2 parameter block stored (base64 of its JSON)
// under meta."key_provider.pbkdf2.mykey" in an encrypted snapshot envelope.
type keyProviderConfig struct {
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
	HashFunc   string `json:"hash_function"`
	KeyLength  int    `json:"key_length"`
}

// IsEncrypted reports whether a snapshot document is an encryption envelope,
// detected by the presence of encrypted_data at the document root.
func IsEncrypted(doc []byte) bool {
	return gjson.GetBytes(doc, "encrypted_data").Exists()
}

// Decrypt opens an encrypted snapshot envelope with the provided passphrase
// and returns the plaintext snapshot document.
func Decrypt(doc []byte, passphrase string) ([]byte, error) {
	var envelope struct {
		Meta struct {
			Key string `json:"key_provider.pbkdf2.mykey"`
		} `json:"meta"`
		EncryptedData string `json:"encrypted_data"`
	}

	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}

	kpBytes, err := base64.StdEncoding.DecodeString(envelope.Meta.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key provider config: %w", err)
	}

	var kpConfig keyProviderConfig
	if err = json.Unmarshal(kpBytes, &kpConfig); err != nil {
		return nil, fmt.Errorf("failed to parse key provider config: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(kpConfig.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	key := pbkdf2.Key(
		[]byte(passphrase),
		salt,
		kpConfig.Iterations,
		kpConfig.KeyLength,
		sha512.New,
	)

	return openSealed(envelope.EncryptedData, key)
}

// Encrypt seals a plaintext snapshot document into the envelope format
// Decrypt understands, with a fresh random salt and nonce.
func Encrypt(plain []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, encryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	kpConfig := keyProviderConfig{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Iterations: encryptIterations,
		HashFunc:   "sha512",
		KeyLength:  encryptKeyLen,
	}
	kpBytes, err := json.Marshal(kpConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key provider config: %w", err)
	}

	key := pbkdf2.Key([]byte(passphrase), salt, kpConfig.Iterations, kpConfig.KeyLength, sha512.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aesGCM.Seal(nonce, nonce, plain, nil)

	envelope := map[string]any{
		"meta": map[string]any{
			"key_provider.pbkdf2.mykey": base64.StdEncoding.EncodeToString(kpBytes),
		},
		"encrypted_data": base64.StdEncoding.EncodeToString(sealed),
	}

	return json.Marshal(envelope)
}

// GetPassphrase prompts interactively for a passphrase without echoing input.
func GetPassphrase() (string, error) {
	var password []byte
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt)

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	defer term.Restore(int(syscall.Stdin), oldState) //nolint:errcheck

	fmt.Print("Enter passphrase: ")
	defer fmt.Print("\r")

loop:
	for {
		select {
		case <-signalChannel:
			fmt.Println("\nInterrupt received, exiting...")
			return "", fmt.Errorf("interrupted")
		default:
			var buf [1]byte
			n, readErr := syscall.Read(syscall.Stdin, buf[:])
			if readErr != nil || n == 0 {
				break loop
			}
			if buf[0] == '\n' || buf[0] == '\r' {
				break loop
			}
			if buf[0] == 127 || buf[0] == 8 { // Handle backspace
				if len(password) > 0 {
					password = password[:len(password)-1]
					fmt.Print("\b \b")
				}
			} else {
				password = append(password, buf[0])
				fmt.Print("*")
			}
		}
	}
	fmt.Println()
	return string(password), nil
}

// openSealed decrypts base64(nonce || ciphertext) with an already-derived key.
func openSealed(encryptedData string, derivedKey []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf(
			"ciphertext too short: expected at least %d bytes, got %d",
			nonceSize,
			len(ciphertext),
		)
	}

	nonce := ciphertext[:nonceSize]
	encrypted := ciphertext[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}
