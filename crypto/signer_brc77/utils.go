package signer_brc77

import (
	"bytes"

	"bitcoin-auth-probe/crypto"

	"github.com/bsv-blockchain/go-sdk/message"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/pkg/errors"
)

// Layout: version(4) | sender key(33) | recipient (0x00 for anyone) | key ID(32) | DER signature
const (
	senderOffset    = 4
	recipientOffset = senderOffset + crypto.CompressedPubKeySize
	keyIDSize       = 32
	minDERSize      = 8
	minSignatureLen = recipientOffset + 1 + keyIDSize + minDERSize
)

var (
	ErrShortSignature = errors.New("signature too short")
	ErrSignerMismatch = errors.New("signature was not made by the given public key")
	ErrBadSignature   = errors.New("signature does not match message")
	ErrNotAnyone      = errors.New("signature is addressed to a specific recipient")
)

// Sign produces a BRC-77 signature that anyone can verify
func Sign(privK *ec.PrivateKey, msg []byte) ([]byte, error) {
	sig, err := message.Sign(msg, privK, nil)
	if err != nil {
		return nil, errors.Wrap(err, "brc77 sign")
	}
	return sig, nil
}

func Verify(pubK *ec.PublicKey, msg, sig []byte) (err error) {
	if len(sig) < minSignatureLen {
		return errors.WithStack(ErrShortSignature)
	}
	if sig[recipientOffset] != 0x00 {
		return errors.WithStack(ErrNotAnyone)
	}
	if !bytes.Equal(sig[senderOffset:senderOffset+crypto.CompressedPubKeySize], pubK.Compressed()) {
		return errors.WithStack(ErrSignerMismatch)
	}
	// go-sdk indexes into the signature without bounds checks
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrBadSignature, "%v", r)
		}
	}()
	ok, err := message.Verify(msg, sig, nil)
	if err != nil {
		return errors.Wrap(err, "brc77 verify")
	}
	if !ok {
		return errors.WithStack(ErrBadSignature)
	}
	return nil
}
