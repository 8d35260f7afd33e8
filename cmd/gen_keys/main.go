package main

import (
	"fmt"
	"log"

	"bitcoin-auth-probe/crypto/fingerprint"
	"bitcoin-auth-probe/crypto/key_secp256k1"
)

func main() {
	// Generate a new private key
	privateKey, err := key_secp256k1.New()
	if err != nil {
		log.Fatalf("Failed to generate private key: %v", err)
	}

	address, err := key_secp256k1.Address(privateKey)
	if err != nil {
		log.Fatalf("Failed to derive address: %v", err)
	}

	fmt.Printf("PRIVATE (WIF): %s\n", key_secp256k1.ToWif(privateKey))
	fmt.Printf("PUBLIC: %s\n", key_secp256k1.PublicHex(privateKey))
	fmt.Printf("ADDRESS: %s\n", address)
	fmt.Printf("FINGERPRINT: %s\n", fingerprint.New(privateKey.PubKey(), nil))
}
