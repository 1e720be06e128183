// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// authenticator provides Authorization header values. Implementations
// handle token lifecycle: static for personal tokens, auto-rotating for
// App installation tokens.
type authenticator interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// tokenRotationMargin is how far before expiry the installation token is
// rotated. Installation tokens live for 1 hour; rotating 5 minutes early
// avoids a token expiring mid-request.
const tokenRotationMargin = 5 * time.Minute

// tokenAuth is a static bearer token authenticator.
type tokenAuth struct {
	header string
}

func newTokenAuth(token string) *tokenAuth {
	return &tokenAuth{header: "Bearer " + token}
}

func (a *tokenAuth) AuthorizationHeader(_ context.Context) (string, error) {
	return a.header, nil
}

// appAuth authenticates as a GitHub App installation. It signs RS256 JWTs
// with the App's private key, exchanges them for short-lived installation
// access tokens, and rotates the cached token before expiry. Safe for
// concurrent use: the token is only ever replaced wholesale under the lock.
type appAuth struct {
	appID          int64
	installationID int64
	privateKey     *rsa.PrivateKey
	now            func() time.Time

	// Set by NewClient after construction; the token exchange request
	// goes through the same transport as regular API calls.
	httpClient *http.Client
	baseURL    string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newAppAuth(appID, installationID int64, privateKeyPEM []byte, now func() time.Time) (*appAuth, error) {
	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return nil, fmt.Errorf("github: failed to decode PEM block from private key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		// GitHub documents PKCS1 keys but some tooling emits PKCS8.
		keyAny, pkcs8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if pkcs8Err != nil {
			return nil, fmt.Errorf("github: parsing private key: %w (also tried PKCS8: %v)", err, pkcs8Err)
		}
		var ok bool
		privateKey, ok = keyAny.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("github: private key is not RSA")
		}
	}

	return &appAuth{
		appID:          appID,
		installationID: installationID,
		privateKey:     privateKey,
		now:            now,
	}, nil
}

func (a *appAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expiresAt.Add(-tokenRotationMargin)) {
		return "Bearer " + a.token, nil
	}

	token, expiresAt, err := a.rotate(ctx)
	if err != nil {
		return "", err
	}

	a.token = token
	a.expiresAt = expiresAt
	return "Bearer " + token, nil
}

// rotate signs a fresh JWT and exchanges it for an installation token.
// Must be called with a.mu held.
func (a *appAuth) rotate(ctx context.Context) (string, time.Time, error) {
	jwt, err := a.signJWT()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("github: generating JWT: %w", err)
	}

	url := a.baseURL + "/app/installations/" + strconv.FormatInt(a.installationID, 10) + "/access_tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("github: creating token exchange request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+jwt)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("github: token exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("github: token exchange returned HTTP %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", time.Time{}, fmt.Errorf("github: decoding token exchange response: %w", err)
	}
	if result.Token == "" {
		return "", time.Time{}, fmt.Errorf("github: token exchange returned empty token")
	}

	return result.Token, result.ExpiresAt, nil
}

// signJWT creates the RS256-signed App JWT used solely for the token
// exchange. 10-minute expiry, issued-at backdated 60s for clock skew.
func (a *appAuth) signJWT() (string, error) {
	now := a.now()

	header := base64URL([]byte(`{"alg":"RS256","typ":"JWT"}`))

	claims := struct {
		IssuedAt  int64  `json:"iat"`
		ExpiresAt int64  `json:"exp"`
		Issuer    string `json:"iss"`
	}{
		IssuedAt:  now.Add(-60 * time.Second).Unix(),
		ExpiresAt: now.Add(10 * time.Minute).Unix(),
		Issuer:    strconv.FormatInt(a.appID, 10),
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshaling claims: %w", err)
	}
	payload := base64URL(claimsJSON)

	signingInput := header + "." + payload
	hash := sha256.Sum256([]byte(signingInput))
	signature, err := rsa.SignPKCS1v15(rand.Reader, a.privateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", fmt.Errorf("signing JWT: %w", err)
	}

	return signingInput + "." + base64URL(signature), nil
}

// base64URL encodes data as unpadded base64url, per RFC 7515.
func base64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
