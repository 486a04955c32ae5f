package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
)

const (
	tokenSegmentSeparator = "."
	tokenPayloadIndex     = 1

	errorMessageMissingPayloadSegment = "auth: token has no payload segment"
	errorMessageDecodePayloadSegment  = "auth: decode token payload"
	errorMessageParsePayload          = "auth: parse token payload"
	errorMessageMissingUserClaim      = "auth: token payload has no user claim"
)

var (
	// ErrMissingPayloadSegment indicates the token does not contain a second segment.
	ErrMissingPayloadSegment = errors.New(errorMessageMissingPayloadSegment)
	// ErrMissingUserClaim indicates the payload decoded but carries no user object.
	ErrMissingUserClaim = errors.New(errorMessageMissingUserClaim)

	segmentDecoder = jwt.NewParser(jwt.WithPaddingAllowed())
)

// TokenIdentity is the user object embedded in an access token.
type TokenIdentity struct {
	ID   string     `json:"id"`
	Role model.Role `json:"role"`
}

// TokenClaims is the subset of access token claims the dashboard reads.
type TokenClaims struct {
	User *TokenIdentity `json:"user"`
}

// ReadClaims decodes the payload segment of token without verifying its signature or expiry.
// The result only decides what the dashboard shows; the API authorizes every request itself.
func ReadClaims(token string) (TokenClaims, error) {
	segments := strings.Split(token, tokenSegmentSeparator)
	if len(segments) <= tokenPayloadIndex || segments[tokenPayloadIndex] == "" {
		return TokenClaims{}, ErrMissingPayloadSegment
	}

	payload, decodeErr := segmentDecoder.DecodeSegment(segments[tokenPayloadIndex])
	if decodeErr != nil {
		return TokenClaims{}, fmt.Errorf("%s: %w", errorMessageDecodePayloadSegment, decodeErr)
	}

	var claims TokenClaims
	if parseErr := json.Unmarshal(payload, &claims); parseErr != nil {
		return TokenClaims{}, fmt.Errorf("%s: %w", errorMessageParsePayload, parseErr)
	}
	if claims.User == nil {
		return TokenClaims{}, ErrMissingUserClaim
	}

	return claims, nil
}

// DecodeRole returns the role claim of token. It reports false for any token it cannot read.
func DecodeRole(token string) (model.Role, bool) {
	claims, readErr := ReadClaims(token)
	if readErr != nil || claims.User.Role == "" {
		return "", false
	}
	return claims.User.Role, true
}

// DecodeUserID returns the user id claim of token. It reports false for any token it cannot read.
func DecodeUserID(token string) (string, bool) {
	claims, readErr := ReadClaims(token)
	if readErr != nil || claims.User.ID == "" {
		return "", false
	}
	return claims.User.ID, true
}
