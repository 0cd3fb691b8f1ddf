package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroventas/appcore/pkg/session"
)

func tokenConExp(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "usuario-1",
		"exp": exp.Unix(),
	})
	firmado, err := tok.SignedString([]byte("secreto-de-prueba"))
	require.NoError(t, err)
	return firmado
}

func TestExpirada_SinToken(t *testing.T) {
	s := session.New()
	assert.True(t, s.Expirada(), "sin token la sesión cuenta como expirada")
}

func TestExpirada_TokenVigente(t *testing.T) {
	s := session.New()
	s.SetToken(tokenConExp(t, time.Now().Add(time.Hour)))
	assert.False(t, s.Expirada())
}

func TestExpirada_TokenVencido(t *testing.T) {
	s := session.New()
	s.SetToken(tokenConExp(t, time.Now().Add(-time.Minute)))
	assert.True(t, s.Expirada())
}

func TestExpirada_TokenSinExp(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "usuario-1"})
	firmado, err := tok.SignedString([]byte("secreto-de-prueba"))
	require.NoError(t, err)

	s := session.New()
	s.SetToken(firmado)
	assert.False(t, s.Expirada(), "un token sin exp se considera vigente")
}

func TestExpirada_TokenCorrupto(t *testing.T) {
	s := session.New()
	s.SetToken("no-es-un-jwt")
	assert.True(t, s.Expirada())
}

func TestSetTokenReemplaza(t *testing.T) {
	s := session.New()
	s.SetToken("a")
	s.SetToken("b")
	assert.Equal(t, "b", s.Token())
}
