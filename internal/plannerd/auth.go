package plannerd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/rocketplan/internal/plannerd/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadCredentials means the supplied API key did not match any
	// issued key.
	ErrBadCredentials = errors.New("the supplied API key is not valid")
)

// IssueAPIKey generates a new random API key for owner, stores its bcrypt
// hash, and returns the plaintext key. The plaintext is only ever available
// at issuance; it is not recoverable from storage, mirroring the teacher's
// password-hashing discipline in server/tunas/users.go.
func IssueAPIKey(ctx context.Context, keys dao.APIKeyRepository, owner uuid.UUID) (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate API key: %w", err)
	}
	plaintext := raw.String()

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return "", fmt.Errorf("generated key too long to hash, this should never happen: %w", err)
		}
		return "", fmt.Errorf("hash API key: %w", err)
	}

	_, err = keys.Create(ctx, dao.APIKey{
		Owner:    owner,
		HashedID: base64.StdEncoding.EncodeToString(hash),
	})
	if err != nil {
		return "", err
	}

	return plaintext, nil
}

// VerifyAPIKey checks plaintext against owner's stored key hash.
func VerifyAPIKey(ctx context.Context, keys dao.APIKeyRepository, owner uuid.UUID, plaintext string) error {
	key, err := keys.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return ErrBadCredentials
		}
		return err
	}

	hash, err := base64.StdEncoding.DecodeString(key.HashedID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(plaintext)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrBadCredentials
		}
		return err
	}
	return nil
}

// generateJWT signs a short-lived HS512 bearer token identifying owner,
// following the teacher's server/token.go generateJWT shape (issuer,
// expiry, subject claim).
func generateJWT(secret []byte, owner uuid.UUID) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "rocketplan",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": owner.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// validateJWT parses and verifies tok, returning the owner UUID from its
// subject claim.
func validateJWT(secret []byte, tok string) (uuid.UUID, error) {
	var owner uuid.UUID

	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("rocketplan"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return uuid.UUID{}, err
	}

	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cannot get subject: %w", err)
	}

	owner, err = uuid.Parse(subj)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cannot parse subject UUID: %w", err)
	}

	return owner, nil
}

// getBearerToken extracts the bearer token from an Authorization header.
func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}
