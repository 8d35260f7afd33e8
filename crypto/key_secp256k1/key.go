package key_secp256k1

import (
	"encoding/hex"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/pkg/errors"
)

var (
	ErrEmptyWif = errors.New("empty private key WIF")
)

// New generates a random secp256k1 private key
func New() (*ec.PrivateKey, error) {
	privK, err := ec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return privK, nil
}

// ToWif encodes the key as mainnet compressed WIF
func ToWif(privK *ec.PrivateKey) string {
	return privK.Wif()
}

func FromWif(wif string) (*ec.PrivateKey, error) {
	if wif == "" {
		return nil, errors.WithStack(ErrEmptyWif)
	}
	privK, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key WIF")
	}
	return privK, nil
}

func PublicHex(privK *ec.PrivateKey) string {
	return hex.EncodeToString(privK.PubKey().Compressed())
}

func PublicFromHex(pubHex string) (*ec.PublicKey, error) {
	pubK, err := ec.PublicKeyFromString(pubHex)
	if err != nil {
		return nil, errors.Wrapf(err, "decode public key %q", pubHex)
	}
	return pubK, nil
}

// Address returns the mainnet P2PKH address of the key
func Address(privK *ec.PrivateKey) (string, error) {
	addr, err := script.NewAddressFromPublicKey(privK.PubKey(), true)
	if err != nil {
		return "", errors.Wrap(err, "derive address")
	}
	return addr.AddressString, nil
}
