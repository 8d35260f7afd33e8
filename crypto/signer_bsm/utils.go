package signer_bsm

import (
	"bytes"

	bsm "github.com/bsv-blockchain/go-sdk/compat/bsm"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/pkg/errors"
)

var (
	ErrSignerMismatch = errors.New("signature was not made by the given public key")
)

// Sign produces a compact recoverable Bitcoin Signed Message signature
func Sign(privK *ec.PrivateKey, msg []byte) ([]byte, error) {
	sig, err := bsm.SignMessage(privK, msg)
	if err != nil {
		return nil, errors.Wrap(err, "bsm sign")
	}
	return sig, nil
}

func Verify(pubK *ec.PublicKey, msg, sig []byte) error {
	recovered, _, err := bsm.PubKeyFromSignature(sig, msg)
	if err != nil {
		return errors.Wrap(err, "bsm recover public key")
	}
	if !bytes.Equal(recovered.Compressed(), pubK.Compressed()) {
		return errors.WithStack(ErrSignerMismatch)
	}
	return nil
}
