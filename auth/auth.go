// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-schedule/models"
)

// Identity headers set by the identity provider in front of the API.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUsername  = "X-Username"
	HeaderUserToken = "X-User-Token"
)

var (
	ErrMissingIdentity = errors.New("missing identity headers")
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrInvalidToken    = errors.New("invalid user token")
)

// GenerateUserToken creates an HMAC-based token binding a user id to the salt
// This is deterministic and verifiable
func GenerateUserToken(userID int64, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateUserToken checks if the provided token is valid for the user
func ValidateUserToken(userID int64, token, salt string) error {
	expected := GenerateUserToken(userID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidToken
	}
	return nil
}

// IdentityFromRequest reads and verifies the viewer's identity headers.
func IdentityFromRequest(r *http.Request, salt string) (models.User, error) {
	rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	username := strings.TrimSpace(r.Header.Get(HeaderUsername))
	token := r.Header.Get(HeaderUserToken)
	if rawID == "" || username == "" || token == "" {
		return models.User{}, ErrMissingIdentity
	}

	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return models.User{}, ErrInvalidUserID
	}

	if err := ValidateUserToken(userID, token, salt); err != nil {
		return models.User{}, err
	}

	return models.User{UserID: userID, Username: username}, nil
}

// SetIdentity writes identity headers for user; used by clients and tests.
func SetIdentity(r *http.Request, user models.User, salt string) {
	r.Header.Set(HeaderUserID, strconv.FormatInt(user.UserID, 10))
	r.Header.Set(HeaderUsername, user.Username)
	r.Header.Set(HeaderUserToken, GenerateUserToken(user.UserID, salt))
}
