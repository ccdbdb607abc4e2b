// Package gate verifies HTTP Basic credentials against stored identities.
//
// Verification runs in full on every request. Nothing is remembered between
// calls, so a deleted identity or a changed secret takes effect immediately.
package gate

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/validation"
	"github.com/mcoot/ftdgame/internal/storage"
)

// Errors
var (
	ErrNoCredentials           = errors.New("no credentials sent")
	ErrMalformedCredentials    = errors.New("malformed credentials")
	ErrInvalidCredentialSyntax = errors.New("invalid credential syntax")
	ErrUnknownUser             = errors.New("user does not exist")
	ErrBadSecret               = errors.New("incorrect password")
)

// SyntaxError carries the login validation report for credentials that
// decoded cleanly but break the username or secret rules
type SyntaxError struct {
	Report validation.Report
}

func (e *SyntaxError) Error() string {
	return e.Report.String()
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidCredentialSyntax
}

// Credentials is a decoded username and secret pair
type Credentials struct {
	Username string
	Secret   string
}

// ParseBasic decodes an Authorization header value of the form
// "Basic base64(username:secret)". The payload is split on the first colon,
// so secrets may themselves contain colons.
func ParseBasic(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, ErrNoCredentials
	}

	// Scheme and payload are split on the first run of whitespace
	i := strings.IndexFunc(header, unicode.IsSpace)
	if i < 0 || header[:i] != "Basic" {
		return Credentials{}, ErrMalformedCredentials
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[i:]))
	if err != nil {
		return Credentials{}, ErrMalformedCredentials
	}

	username, secret, found := strings.Cut(string(decoded), ":")
	if !found {
		return Credentials{}, ErrMalformedCredentials
	}

	return Credentials{Username: username, Secret: secret}, nil
}

// Gate checks credentials against storage
type Gate struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new Gate
func New(storage storage.Storage, logger *slog.Logger) *Gate {
	return &Gate{storage: storage, logger: logger}
}

// Verify returns the username the header proves, or the reason it proves nothing
func (g *Gate) Verify(ctx context.Context, header string) (string, error) {
	creds, err := ParseBasic(header)
	if err != nil {
		g.logger.Info("credentials rejected", "reason", err.Error())
		return "", err
	}

	if report := validation.ValidateLogin(creds.Username, creds.Secret); !report.Valid() {
		g.logger.Info("credentials rejected", "reason", ErrInvalidCredentialSyntax.Error())
		return "", &SyntaxError{Report: report}
	}

	exists, err := g.storage.IdentityExists(ctx, creds.Username)
	if err != nil {
		g.logger.Error("identity lookup failed", "username", creds.Username, "error", err)
		return "", model.StorageFailure(err)
	}
	if !exists {
		g.logger.Info("credentials rejected", "reason", ErrUnknownUser.Error(), "username", creds.Username)
		return "", ErrUnknownUser
	}

	ok, err := g.storage.VerifySecret(ctx, creds.Username, creds.Secret)
	if err != nil {
		g.logger.Error("secret verification failed", "username", creds.Username, "error", err)
		return "", model.StorageFailure(err)
	}
	if !ok {
		g.logger.Info("credentials rejected", "reason", ErrBadSecret.Error(), "username", creds.Username)
		return "", ErrBadSecret
	}

	return creds.Username, nil
}
