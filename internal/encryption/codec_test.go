package encryption

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyA = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testKeyB = "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
)

func newTestCodec(t *testing.T, key string) *Codec {
	t.Helper()
	c, err := NewCodecFromHex(key)
	require.NoError(t, err)
	return c
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
		kind    KeyErrorKind
	}{
		{name: "valid lowercase", key: testKeyA},
		{name: "valid uppercase", key: strings.ToUpper(testKeyA)},
		{name: "empty", key: "", wantErr: ErrKeyMissing, kind: KeyMissing},
		{name: "too short", key: testKeyA[:63], wantErr: ErrKeyInvalidLength, kind: KeyInvalidLength},
		{name: "too long", key: testKeyA + "0", wantErr: ErrKeyInvalidLength, kind: KeyInvalidLength},
		{name: "non hex", key: "g" + testKeyA[1:], wantErr: ErrKeyInvalidFormat, kind: KeyInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var keyErr *KeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, tt.kind, keyErr.Kind)
			if tt.key != "" {
				assert.NotContains(t, err.Error(), tt.key)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)

	assert.NoError(t, ValidateKey(a))
	assert.NotEqual(t, a, b)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t, testKeyA)

	for _, plaintext := range []string{"", "hello", "josé@ejemplo.com", "数据 🔐", strings.Repeat("x", 4096)} {
		token, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, TokenPrefix))
		assert.True(t, IsEncrypted(token))

		got, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCodec_TokenLayout(t *testing.T) {
	c := newTestCodec(t, testKeyA)

	token, err := c.Encrypt("abc")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(token, TokenPrefix))
	require.NoError(t, err)
	assert.Len(t, raw, ivLength+authTagLength+3)

	empty, err := c.Encrypt("")
	require.NoError(t, err)
	raw, err = base64.StdEncoding.DecodeString(strings.TrimPrefix(empty, TokenPrefix))
	require.NoError(t, err)
	assert.Len(t, raw, minRawLength)
}

func TestCodec_NonDeterministic(t *testing.T) {
	c := newTestCodec(t, testKeyA)

	first, err := c.Encrypt("same value")
	require.NoError(t, err)
	second, err := c.Encrypt("same value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodec_TamperDetected(t *testing.T) {
	c := newTestCodec(t, testKeyA)
	token, err := c.Encrypt("sensitive")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(token, TokenPrefix))
	require.NoError(t, err)

	// Every bit of IV, tag and ciphertext is covered.
	for idx := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), raw...)
			tampered[idx] ^= 1 << bit
			_, err := c.Decrypt(TokenPrefix + base64.StdEncoding.EncodeToString(tampered))
			require.Error(t, err, "byte %d bit %d", idx, bit)
			assert.ErrorIs(t, err, ErrAuthTagMismatch, "byte %d bit %d", idx, bit)
		}
	}
}

func TestCodec_WrongKey(t *testing.T) {
	token, err := newTestCodec(t, testKeyA).Encrypt("secret")
	require.NoError(t, err)

	_, err = newTestCodec(t, testKeyB).Decrypt(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthTagMismatch)
	assert.NotEmpty(t, CorrelationID(err))
	assert.NotContains(t, err.Error(), "secret")
	assert.NotContains(t, err.Error(), token)
}

func TestCodec_FormatInvalid(t *testing.T) {
	c := newTestCodec(t, testKeyA)
	short := TokenPrefix + base64.StdEncoding.EncodeToString(make([]byte, minRawLength-1))

	for _, token := range []string{"", "plain text", "enc:", "enc:!!not-base64!!", short} {
		_, err := c.Decrypt(token)
		require.Error(t, err, token)
		assert.ErrorIs(t, err, ErrFormatInvalid)

		var decErr *DecryptionError
		require.ErrorAs(t, err, &decErr)
		assert.Equal(t, FormatInvalid, decErr.Kind)
		assert.NotEmpty(t, decErr.CorrelationID)
	}
}

func TestIsEncrypted(t *testing.T) {
	token, err := newTestCodec(t, testKeyA).Encrypt("x")
	require.NoError(t, err)

	assert.True(t, IsEncrypted(token))
	assert.False(t, IsEncrypted(""))
	assert.False(t, IsEncrypted("enc:"))
	assert.False(t, IsEncrypted("enc:abc"))
	assert.False(t, IsEncrypted(strings.TrimPrefix(token, TokenPrefix)))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "KEY_MISSING", Category(ValidateKey("")))
	assert.Equal(t, string(AuthTagMismatch), Category(newDecryptionError(AuthTagMismatch)))
	assert.Equal(t, "ENCRYPTION_FAILED", Category(newEncryptionError()))
}
