package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"cyberblog/internal/store"
)

const csrfTokenBytes = 32

type csrfRecord struct {
	token string
}

// CSRFService hands out one-time anti-forgery tokens bound to a session
// credential. The raw auth-token cookie value is the record key, so a
// fresh login implicitly invalidates every token issued for the old
// session, and a leaked CSRF token is useless without the cookie.
type CSRFService struct {
	records store.Store[csrfRecord]
	ttl     time.Duration
}

func NewCSRFService(ttl time.Duration) *CSRFService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &CSRFService{records: store.NewMemory[csrfRecord](), ttl: ttl}
}

// Issue generates a fresh token for sessionKey, replacing any prior one.
// Expired records across the whole store are swept here instead of on a
// background timer.
func (s *CSRFService) Issue(sessionKey string) (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}

	token := hex.EncodeToString(buf)
	s.records.Set(sessionKey, csrfRecord{token: token}, s.ttl)
	s.records.Sweep()

	return token, nil
}

// Validate succeeds only for the live token of sessionKey. The record is
// destroyed on success (one-time use) and on every failure path: a failed
// attempt must not be retryable with a corrected token.
func (s *CSRFService) Validate(sessionKey string, presented string) bool {
	record, ok := s.records.Get(sessionKey)
	if !ok {
		return false
	}

	s.records.Delete(sessionKey)

	if len(presented) != len(record.token) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(record.token), []byte(presented)) == 1
}

// TTLText is the human-readable validity window for the issuance response,
// e.g. "24 hours".
func (s *CSRFService) TTLText() string {
	hours := int(s.ttl.Hours())
	if hours >= 1 && s.ttl == time.Duration(hours)*time.Hour {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}

	return s.ttl.String()
}
