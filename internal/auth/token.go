package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/policy"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 60 * time.Minute

// Verification failure causes. Each is wrapped in an UNAUTHENTICATED error.
var (
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenSignature      = errors.New("token signature invalid")
	ErrTokenMalformed      = errors.New("token malformed")
	ErrTokenMissingSubject = errors.New("token missing subject")
)

// Claims is the signed payload of an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HMAC-signed access tokens. Tokens are not
// revocable; a token stays valid until its expiry whatever happens to the
// user afterwards.
type Tokens struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

// NewTokens returns a Tokens signing with secret under algorithm, which must
// name an HMAC method (HS256, HS384 or HS512).
func NewTokens(secret []byte, algorithm string) (*Tokens, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Tokens{secret: secret, method: method, now: time.Now}, nil
}

// Issue signs a token for subject and role expiring ttl from now.
func (t *Tokens) Issue(subject string, role data.Role, ttl time.Duration) (string, time.Time, error) {
	now := t.now().UTC()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// principal it was issued to.
func (t *Tokens) Verify(tokenString string) (policy.Principal, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{t.method.Alg()}))
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		// Claims are validated before the signature, so a forged token can
		// carry both flags. Signature failures win.
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return policy.Principal{}, invalidToken(ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return policy.Principal{}, invalidToken(ErrTokenExpired, err)
		default:
			return policy.Principal{}, invalidToken(ErrTokenMalformed, err)
		}
	}

	if claims.ExpiresAt == nil {
		return policy.Principal{}, invalidToken(ErrTokenMalformed, errors.New("missing exp claim"))
	}
	if claims.Subject == "" {
		return policy.Principal{}, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token: missing subject", ErrTokenMissingSubject)
	}
	role := data.Role(claims.Role)
	if !role.Valid() {
		return policy.Principal{}, invalidToken(ErrTokenMalformed, fmt.Errorf("unknown role %q", claims.Role))
	}
	return policy.Principal{Email: claims.Subject, Role: role}, nil
}

func invalidToken(kind, cause error) error {
	return apperr.Wrap(apperr.CodeUnauthenticated, "invalid or expired token", fmt.Errorf("%w: %v", kind, cause))
}
