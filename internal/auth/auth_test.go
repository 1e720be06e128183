// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"parokicms/internal/config"
)

func testAdmin(t *testing.T, username, password, totpSecret string) config.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return config.AdminUser{Username: username, PasswordHash: string(hash), TOTPSecret: totpSecret}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService([]config.AdminUser{
		testAdmin(t, "ketua", "rahasia-kuat", ""),
	})

	if _, ok := svc.Authenticate("ketua", "rahasia-kuat"); !ok {
		t.Error("valid credentials rejected")
	}
	if _, ok := svc.Authenticate("ketua", "salah"); ok {
		t.Error("wrong password accepted")
	}
	if _, ok := svc.Authenticate("tamu", "rahasia-kuat"); ok {
		t.Error("unknown user accepted")
	}
}

func TestTOTPRoundTrip(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: Issuer, AccountName: "ketua"})
	if err != nil {
		t.Fatalf("totp generate: %v", err)
	}
	admin := config.AdminUser{Username: "ketua", TOTPSecret: key.Secret()}

	if !RequiresTOTP(admin) {
		t.Error("RequiresTOTP = false with secret set")
	}
	if RequiresTOTP(config.AdminUser{Username: "lain"}) {
		t.Error("RequiresTOTP = true without secret")
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("totp code: %v", err)
	}
	if !VerifyTOTP(admin, code) {
		t.Error("current code rejected")
	}
	if VerifyTOTP(admin, "000000") {
		t.Error("bogus code accepted")
	}
	if VerifyTOTP(config.AdminUser{Username: "lain"}, code) {
		t.Error("verification passed without a secret")
	}
}

func TestProvisioning(t *testing.T) {
	admin := config.AdminUser{Username: "ketua", TOTPSecret: "JBSWY3DPEHPK3PXP"}

	url := ProvisioningURL(admin)
	for _, want := range []string{"otpauth://totp/", "ketua", "secret=JBSWY3DPEHPK3PXP", "issuer=" + Issuer} {
		if !strings.Contains(url, want) {
			t.Errorf("ProvisioningURL missing %q: %s", want, url)
		}
	}

	qr, err := ProvisioningQR(admin)
	if err != nil {
		t.Fatalf("ProvisioningQR: %v", err)
	}
	png, err := base64.StdEncoding.DecodeString(qr)
	if err != nil {
		t.Fatalf("QR is not base64: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("QR payload is not a PNG")
	}

	if _, err := ProvisioningQR(config.AdminUser{Username: "lain"}); err == nil {
		t.Error("expected error without a secret")
	}
}

// testValkeyClient returns a Redis client for limiter tests, skipping
// when Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, attemptKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestLoginLimiter(t *testing.T) {
	limiter := NewLoginLimiter(testValkeyClient(t))
	ctx := context.Background()
	key := Key("ketua", "203.0.113.9")

	if limiter.Blocked(ctx, key) {
		t.Error("fresh key blocked")
	}

	for i := 0; i < DefaultMaxAttempts; i++ {
		limiter.RecordFailure(ctx, key)
	}
	if !limiter.Blocked(ctx, key) {
		t.Error("key not blocked after max failures")
	}

	limiter.Reset(ctx, key)
	if limiter.Blocked(ctx, key) {
		t.Error("key still blocked after reset")
	}
}

func TestLoginLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewLoginLimiter(testValkeyClient(t))
	ctx := context.Background()

	for i := 0; i < DefaultMaxAttempts; i++ {
		limiter.RecordFailure(ctx, Key("ketua", "203.0.113.9"))
	}

	if limiter.Blocked(ctx, Key("ketua", "198.51.100.4")) {
		t.Error("different address shares the lockout")
	}
	if limiter.Blocked(ctx, Key("sekretaris", "203.0.113.9")) {
		t.Error("different account shares the lockout")
	}
}
