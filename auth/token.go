package auth

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"bitcoin-auth-probe/configs"
	"bitcoin-auth-probe/crypto/key_secp256k1"
	"bitcoin-auth-probe/crypto/sha256"
	"bitcoin-auth-probe/crypto/signer_brc77"
	"bitcoin-auth-probe/crypto/signer_bsm"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/pkg/errors"
)

type Scheme string

const (
	SchemeBRC77 Scheme = "brc77"
	SchemeBSM   Scheme = "bsm"
)

// Token fields needed to derive a token
type Config struct {
	PrivateKeyWif string
	RequestPath   string
	Body          string
	Scheme        Scheme
	BodyEncoding  sha256.BodyEncoding
	// Timestamp defaults to now
	Timestamp time.Time
}

// Token is a parsed pubkey|scheme|timestamp|requestPath|signature string
type Token struct {
	PubKey      string
	Scheme      Scheme
	Timestamp   time.Time
	RequestPath string
	Signature   string

	// timestamp as it appeared in the token, which is what was signed
	rawTimestamp string
}

// Target is what the verifier expects the token to cover
type Target struct {
	RequestPath  string
	Timestamp    time.Time
	Body         string
	BodyEncoding sha256.BodyEncoding
}

type signFunc func(*ec.PrivateKey, []byte) ([]byte, error)
type verifyFunc func(*ec.PublicKey, []byte, []byte) error

var (
	signers = map[Scheme]signFunc{
		SchemeBRC77: signer_brc77.Sign,
		SchemeBSM:   signer_bsm.Sign,
	}
	verifiers = map[Scheme]verifyFunc{
		SchemeBRC77: signer_brc77.Verify,
		SchemeBSM:   signer_bsm.Verify,
	}
)

// GetAuthToken signs requestPath, timestamp and body hash with the given key
func GetAuthToken(cfg Config) (string, error) {
	if cfg.PrivateKeyWif == "" {
		return "", errors.WithStack(ErrMissingPrivateKey)
	}
	if cfg.RequestPath == "" {
		return "", errors.WithStack(ErrMissingRequestPath)
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = SchemeBRC77
	}
	sign, ok := signers[scheme]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedScheme, "%s", scheme)
	}

	privK, err := key_secp256k1.FromWif(cfg.PrivateKeyWif)
	if err != nil {
		return "", err
	}

	ts := cfg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	timestamp := formatTimestamp(ts)

	payload, err := signedPayload(cfg.RequestPath, timestamp, cfg.Body, cfg.BodyEncoding)
	if err != nil {
		return "", err
	}
	sig, err := sign(privK, payload)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{
		key_secp256k1.PublicHex(privK),
		string(scheme),
		timestamp,
		cfg.RequestPath,
		base64.StdEncoding.EncodeToString(sig),
	}, configs.TokenSeparator), nil
}

// ParseAuthToken splits a token into its fields. The request path may itself contain separators.
func ParseAuthToken(token string) (*Token, error) {
	parts := strings.Split(token, configs.TokenSeparator)
	if len(parts) < 5 {
		return nil, errors.Wrapf(ErrMalformedToken, "expected 5 fields, got %d", len(parts))
	}

	scheme := Scheme(parts[1])
	if _, ok := verifiers[scheme]; !ok {
		return nil, errors.Wrapf(ErrMalformedToken, "unknown scheme %q", parts[1])
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[2])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedToken, "bad timestamp %q", parts[2])
	}
	if parts[0] == "" || parts[len(parts)-1] == "" {
		return nil, errors.Wrap(ErrMalformedToken, "empty public key or signature")
	}

	return &Token{
		PubKey:      parts[0],
		Scheme:      scheme,
		Timestamp:   ts,
		RequestPath: strings.Join(parts[3:len(parts)-1], configs.TokenSeparator),
		Signature:   parts[len(parts)-1],

		rawTimestamp: parts[2],
	}, nil
}

// VerifyAuthToken checks the token against target. timePad <= 0 uses configs.DefaultTimePad.
func VerifyAuthToken(token string, target Target, timePad time.Duration) error {
	tok, err := ParseAuthToken(token)
	if err != nil {
		return err
	}
	return tok.Verify(target, timePad)
}

func (t *Token) Verify(target Target, timePad time.Duration) error {
	if timePad <= 0 {
		timePad = configs.DefaultTimePad
	}
	if t.RequestPath != target.RequestPath {
		return errors.Wrapf(ErrPathMismatch, "token %q, request %q", t.RequestPath, target.RequestPath)
	}

	now := target.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	// Sub saturates for far apart times, so compare against the window edges
	if t.Timestamp.Before(now.Add(-timePad)) || t.Timestamp.After(now.Add(timePad)) {
		return errors.Wrapf(ErrTimestampSkew, "token %s, now %s", formatTimestamp(t.Timestamp), formatTimestamp(now))
	}

	verify, ok := verifiers[t.Scheme]
	if !ok {
		return errors.Wrapf(ErrMalformedToken, "unknown scheme %q", t.Scheme)
	}
	pubK, err := key_secp256k1.PublicFromHex(t.PubKey)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	sig, err := base64.StdEncoding.Strict().DecodeString(t.Signature)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, "signature is not base64")
	}

	payload, err := signedPayload(t.RequestPath, t.signedTimestamp(), target.Body, target.BodyEncoding)
	if err != nil {
		return err
	}
	if err := verify(pubK, payload, sig); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return nil
}

// ReplayKey identifies the request a verified token authorises. It is derived from
// the signer and the signed content rather than the signature, since ECDSA signatures
// and their encodings are malleable.
func (t *Token) ReplayKey(target Target) (string, error) {
	pubK, err := key_secp256k1.PublicFromHex(t.PubKey)
	if err != nil {
		return "", errors.Wrap(ErrMalformedToken, err.Error())
	}
	payload, err := signedPayload(t.RequestPath, t.signedTimestamp(), target.Body, target.BodyEncoding)
	if err != nil {
		return "", err
	}
	material := append(append([]byte{}, pubK.Compressed()...), payload...)
	return hex.EncodeToString(sha256.Hash(material)), nil
}

func (t *Token) signedTimestamp() string {
	if t.rawTimestamp != "" {
		return t.rawTimestamp
	}
	return formatTimestamp(t.Timestamp)
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(configs.TimestampLayout)
}

func signedPayload(requestPath, timestamp, body string, encoding sha256.BodyEncoding) ([]byte, error) {
	bodyHash, err := sha256.BodyHash(body, encoding)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join([]string{requestPath, timestamp, bodyHash}, configs.TokenSeparator)), nil
}
