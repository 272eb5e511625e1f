package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testSecret        = "test-secret-key-for-jwt-testing"
	testWrongSecret   = "wrong-secret-key-for-jwt-testing"
	testSubject       = "testathlete"
	testTokenDuration = 1 * time.Hour
)

func TestGenerateToken_Success(t *testing.T) {
	// Act
	token, err := GenerateToken(testSubject, testSecret, testTokenDuration)

	// Assert
	require.NoError(t, err, "GenerateToken should not return error for valid input")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have header.payload.signature form")
}

func TestValidateToken_Success(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, testTokenDuration)
	require.NoError(t, err, "Setup: GenerateToken should not fail")

	// Act
	subject, err := ValidateToken(token, testSecret)

	// Assert
	require.NoError(t, err, "ValidateToken should not return error for valid token")
	assert.Equal(t, testSubject, subject, "Subject should round-trip through the token")
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	// Arrange: token that expired an hour ago
	token, err := GenerateToken(testSubject, testSecret, -1*time.Hour)
	require.NoError(t, err, "Setup: GenerateToken should not fail")

	// Act
	subject, err := ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrExpiredToken, "Expired token should be classified as EXPIRED")
	assert.Empty(t, subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, testTokenDuration)
	require.NoError(t, err)

	// Act
	subject, err := ValidateToken(token, testWrongSecret)

	// Assert
	assert.ErrorIs(t, err, ErrBadSignature, "Token signed with another secret should fail signature check")
	assert.Empty(t, subject)
}

func TestValidateToken_FlippedSignature(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, testTokenDuration)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]
	replacement := "A"
	if strings.HasPrefix(sig, "A") {
		replacement = "B"
	}
	parts[2] = replacement + sig[1:]
	tampered := strings.Join(parts, ".")

	// Act
	subject, err := ValidateToken(tampered, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrBadSignature, "Flipped signature bytes should be classified as BAD_SIGNATURE")
	assert.Empty(t, subject)
}

func TestValidateToken_TruncatedToken(t *testing.T) {
	// Arrange
	token, err := GenerateToken(testSubject, testSecret, testTokenDuration)
	require.NoError(t, err)

	// Act: drop the last character
	subject, err := ValidateToken(token[:len(token)-1], testSecret)

	// Assert
	assert.Error(t, err, "Truncated token must be rejected")
	assert.Empty(t, subject)
}

func TestValidateToken_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"not-a-token",
		"only.two",
		"a.b.c.d",
	}

	for _, token := range malformed {
		subject, err := ValidateToken(token, testSecret)
		assert.ErrorIs(t, err, ErrMalformedToken, "Token %q should be classified as MALFORMED", token)
		assert.Empty(t, subject)
	}
}

func TestValidateToken_MissingExpiry(t *testing.T) {
	// Arrange: hand-build a token that carries a subject but no exp claim
	claims := jwt.RegisteredClaims{
		Subject:  testSubject,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Act
	subject, err := ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrMissingClaim, "Token without exp should be classified as MISSING_CLAIM")
	assert.Empty(t, subject)
}

func TestValidateToken_MissingSubject(t *testing.T) {
	// Arrange: valid signature and expiry but no subject claim
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(testTokenDuration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Act
	subject, err := ValidateToken(token, testSecret)

	// Assert
	assert.ErrorIs(t, err, ErrMissingClaim, "Token without sub should be classified as MISSING_CLAIM")
	assert.Empty(t, subject)
}

func TestValidateToken_DifferentAlgorithm(t *testing.T) {
	// Arrange: token signed with the "none" algorithm must never validate,
	// even though its claims are well-formed
	claims := jwt.RegisteredClaims{
		Subject:   testSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(testTokenDuration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// Act
	subject, err := ValidateToken(token, testSecret)

	// Assert
	assert.Error(t, err, "alg=none token must be rejected")
	assert.Empty(t, subject)
}
