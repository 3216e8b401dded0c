package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens([]byte("test-secret"), "HS256")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	return tokens
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := newTestTokens(t)

	signed, expiresAt, err := tokens.Issue("a@x.com", data.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	p, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.Email != "a@x.com" || p.Role != data.RoleAdmin {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestVerifyZeroTTLIsExpired(t *testing.T) {
	tokens := newTestTokens(t)

	signed, _, err := tokens.Issue("a@x.com", data.RoleUser, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = tokens.Verify(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated code, got %v", err)
	}
	if errors.Is(err, ErrTokenSignature) {
		t.Fatal("expired token must not report a signature failure")
	}
}

func TestVerifyPastExpiry(t *testing.T) {
	tokens := newTestTokens(t)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := tokens.Issue("a@x.com", data.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens.now = time.Now
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	tokens := newTestTokens(t)

	signed, _, err := tokens.Issue("a@x.com", data.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(signed, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tokens.Verify(tampered)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected signature failure, got %v", err)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatal("tampered token must not report expiry")
	}
}

func TestVerifyOtherKey(t *testing.T) {
	other, err := NewTokens([]byte("other-secret"), "HS256")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	signed, _, err := other.Issue("a@x.com", data.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestTokens(t).Verify(signed); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected signature failure, got %v", err)
	}
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	hs512, err := NewTokens([]byte("test-secret"), "HS512")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	signed, _, err := hs512.Issue("a@x.com", data.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestTokens(t).Verify(signed); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected algorithm mismatch to fail as signature, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	tokens := newTestTokens(t)
	for _, s := range []string{"", "abc", "a.b.c"} {
		_, err := tokens.Verify(s)
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("%q: expected unauthenticated, got %v", s, err)
		}
		if errors.Is(err, ErrTokenExpired) {
			t.Fatalf("%q: malformed token must not report expiry", s)
		}
	}
}

func signRaw(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestVerifyMissingSubject(t *testing.T) {
	signed := signRaw(t, &Claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := newTestTokens(t).Verify(signed)
	if !errors.Is(err, ErrTokenMissingSubject) {
		t.Fatalf("expected missing subject, got %v", err)
	}
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated code, got %v", err)
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	signed := signRaw(t, &Claims{
		Role:             "user",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
	})
	if _, err := newTestTokens(t).Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected malformed, got %v", err)
	}
}

func TestVerifyUnknownRole(t *testing.T) {
	signed := signRaw(t, &Claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := newTestTokens(t).Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected malformed, got %v", err)
	}
}

func TestNewTokensValidation(t *testing.T) {
	if _, err := NewTokens(nil, "HS256"); err == nil {
		t.Fatal("expected error for empty secret")
	}
	for _, alg := range []string{"RS256", "none", "", "bogus"} {
		if _, err := NewTokens([]byte("k"), alg); err == nil {
			t.Fatalf("expected error for algorithm %q", alg)
		}
	}
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		if _, err := NewTokens([]byte("k"), alg); err != nil {
			t.Fatalf("algorithm %q: %v", alg, err)
		}
	}
}
