package auth

import "github.com/pkg/errors"

var (
	ErrMissingPrivateKey  = errors.New("missing private key WIF")
	ErrMissingRequestPath = errors.New("missing request path")
	ErrUnsupportedScheme  = errors.New("unsupported signing scheme")
	ErrMalformedToken     = errors.New("malformed auth token")
	ErrPathMismatch       = errors.New("request path does not match token")
	ErrTimestampSkew      = errors.New("token timestamp outside allowed window")
	ErrInvalidSignature   = errors.New("invalid token signature")
)
