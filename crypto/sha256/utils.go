package sha256

import (
	"encoding/base64"
	"encoding/hex"

	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/pkg/errors"
)

// BodyEncoding tells BodyHash how to turn the request body into bytes
type BodyEncoding string

const (
	EncodingUTF8   BodyEncoding = "utf8"
	EncodingHex    BodyEncoding = "hex"
	EncodingBase64 BodyEncoding = "base64"
)

var (
	ErrUnknownEncoding = errors.New("unknown body encoding")
)

func Hash(data []byte) []byte {
	return crypto.Sha256(data)
}

// BodyHash returns the lowercase hex SHA-256 of the decoded body, or "" for an empty body
func BodyHash(body string, encoding BodyEncoding) (string, error) {
	if body == "" {
		return "", nil
	}

	var raw []byte
	switch encoding {
	case "", EncodingUTF8:
		raw = []byte(body)
	case EncodingHex:
		b, err := hex.DecodeString(body)
		if err != nil {
			return "", errors.Wrap(err, "decode hex body")
		}
		raw = b
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return "", errors.Wrap(err, "decode base64 body")
		}
		raw = b
	default:
		return "", errors.Wrapf(ErrUnknownEncoding, "%s", encoding)
	}
	return hex.EncodeToString(Hash(raw)), nil
}
