package crypto

const (
	CompressedPubKeySize = 33
	SHA256Size           = 32
)
