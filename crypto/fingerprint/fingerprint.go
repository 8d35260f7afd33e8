package fingerprint

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const iterations = 5200

// Fingerprint is a 30-digit human comparable code for a public key
type Fingerprint [30]int

// New iterates SHA-512 over the compressed key and identifier, Signal safety-number style
func New(pubKey *ec.PublicKey, identifier []byte) Fingerprint {
	digest := append(append([]byte{}, pubKey.Compressed()...), identifier...)
	for i := 0; i < iterations; i++ {
		sum := sha512.Sum512(digest)
		digest = sum[:]
	}

	var result Fingerprint
	for i := 0; i < 6; i++ {
		chunk := digest[i*5 : (i+1)*5]
		num := binary.BigEndian.Uint64(append([]byte{0, 0, 0}, chunk...)) % 100000
		for j := 4; j >= 0; j-- {
			result[i*5+j] = int(num % 10)
			num /= 10
		}
	}
	return result
}

// String renders six groups of five digits
func (f Fingerprint) String() string {
	groups := make([]string, 6)
	for i := range groups {
		var sb strings.Builder
		for _, d := range f[i*5 : (i+1)*5] {
			fmt.Fprintf(&sb, "%d", d)
		}
		groups[i] = sb.String()
	}
	return strings.Join(groups, " ")
}
