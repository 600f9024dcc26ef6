package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secreto-de-pruebas"

func TestGenerateYParse_IdaYVuelta(t *testing.T) {
	tok, err := Generate(secret, Identity{UserID: "u1", CompanyID: "c1", Role: "admin"}, "test", 5)
	require.NoError(t, err)

	id, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", CompanyID: "c1", Role: "admin"}, id)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(secret, Identity{UserID: "u1"}, "test", 5)
	require.NoError(t, err)
	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(secret, Identity{UserID: "u1"}, "test", -1)
	require.NoError(t, err)
	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_UsaSubjectSiFaltaUserID(t *testing.T) {
	claims := gojwt.RegisteredClaims{
		Subject:   "u9",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	id, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u9", id.UserID)
}

func TestParse_SinSecret(t *testing.T) {
	_, err := Parse("", "x")
	assert.Error(t, err)
	_, err = Generate("", Identity{UserID: "u"}, "", 1)
	assert.Error(t, err)
}
