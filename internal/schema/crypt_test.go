// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := []byte(`{"users":[{"column_name":"id","data_type":"integer","is_nullable":"NO"}]}`)

	sealed, err := Encrypt(plain, "correct horse")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(sealed))
	assert.False(t, IsEncrypted(plain))

	opened, err := Decrypt(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	sealed, err := Encrypt([]byte(`{}`), "right")
	require.NoError(t, err)

	_, err = Decrypt(sealed, "wrong")
	assert.Error(t, err)
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "not json",
			doc:  `{{{`,
		},
		{
			name: "key provider not base64",
			doc:  `{"meta":{"key_provider.pbkdf2.mykey":"!!!"},"encrypted_data":""}`,
		},
		{
			name: "encrypted data not base64",
			doc:  `{"meta":{"key_provider.pbkdf2.mykey":""},"encrypted_data":"!!!"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt([]byte(tt.doc), "pw")
			assert.Error(t, err)
		})
	}
}

func TestEncryptFreshSaltPerSeal(t *testing.T) {
	one, err := Encrypt([]byte(`{}`), "pw")
	require.NoError(t, err)
	two, err := Encrypt([]byte(`{}`), "pw")
	require.NoError(t, err)

	assert.NotEqual(t, string(one), string(two))
}
