package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session guarda el bearer token de la sesión activa. El login y el refresh
// viven fuera de este núcleo; aquí solo se consulta el token y su vigencia
// para no disparar requests que el servidor va a rechazar con 401.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New crea una sesión vacía (sin token).
func New() *Session {
	return &Session{}
}

// SetToken reemplaza el token (tras login o refresh).
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token devuelve el token actual, vacío si no hay sesión.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expirada inspecciona el claim exp del token sin verificar la firma (la
// verificación es del servidor; aquí solo se decide si vale la pena enviar).
// Sin token cuenta como expirada; un token sin exp se considera vigente.
func (s *Session) Expirada() bool {
	tok := s.Token()
	if tok == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}
