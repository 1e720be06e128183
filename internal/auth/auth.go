// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package auth verifies admin credentials. Accounts are configured
// through the environment, so there is no user database: a login checks
// the submitted password against the account's bcrypt hash and, when a
// TOTP secret is configured, a second factor.
package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"parokicms/internal/config"
)

// Issuer is the TOTP issuer label shown in authenticator apps.
const Issuer = "ParokiCMS"

// dummyHash keeps the bcrypt cost constant for unknown usernames so a
// login attempt cannot distinguish "no such user" from "wrong password"
// by timing.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Service authenticates admin accounts.
type Service struct {
	admins []config.AdminUser
}

// NewService creates a Service over the configured admin accounts.
func NewService(admins []config.AdminUser) *Service {
	return &Service{admins: admins}
}

// Authenticate checks a username/password pair. The ok flag is false
// for unknown users and wrong passwords alike.
func (s *Service) Authenticate(username, password string) (config.AdminUser, bool) {
	for _, admin := range s.admins {
		if admin.Username == username {
			err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
			return admin, err == nil
		}
	}
	bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return config.AdminUser{}, false
}

// Lookup finds a configured account by username without checking any
// credential.
func (s *Service) Lookup(username string) (config.AdminUser, bool) {
	for _, admin := range s.admins {
		if admin.Username == username {
			return admin, true
		}
	}
	return config.AdminUser{}, false
}

// RequiresTOTP reports whether the account has a second factor
// configured.
func RequiresTOTP(admin config.AdminUser) bool {
	return admin.TOTPSecret != ""
}

// VerifyTOTP validates a TOTP code against the account's secret.
func VerifyTOTP(admin config.AdminUser, code string) bool {
	if admin.TOTPSecret == "" {
		return false
	}
	return totp.Validate(code, admin.TOTPSecret)
}

// ProvisioningURL builds the otpauth URL an authenticator app enrolls
// from.
func ProvisioningURL(admin config.AdminUser) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		Issuer, admin.Username, admin.TOTPSecret, Issuer)
}

// ProvisioningQR renders the provisioning URL as a base64-encoded PNG
// QR code for display on the setup page.
func ProvisioningQR(admin config.AdminUser) (string, error) {
	if admin.TOTPSecret == "" {
		return "", fmt.Errorf("account %s has no totp secret", admin.Username)
	}
	png, err := qrcode.Encode(ProvisioningURL(admin), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
