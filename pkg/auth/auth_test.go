package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, kid string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "a@example.com",
		Name:  "Ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifier_HS256(t *testing.T) {
	v := NewVerifier("s3cret", nil)

	claims, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("s3cret"), "", validClaims("user-1")))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)

	_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte("other"), "", validClaims("user-1")))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("s3cret", nil)

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("s3cret"), "", expired))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte("s3cret"), "", validClaims("")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifier_RS256ViaJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	v := NewVerifier("", NewProvider(srv.URL))

	claims, err := v.Verify(sign(t, jwt.SigningMethodRS256, key, "k1", validClaims("user-2")))
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)

	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, "unknown", validClaims("user-2")))
	assert.Error(t, err)

	// HS256 is rejected when no secret is configured
	_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte("x"), "", validClaims("user-2")))
	assert.Error(t, err)
}
