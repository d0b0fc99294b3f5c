package tron

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// TRON base58check addresses: 0x41 prefix byte + 20-byte account id +
// 4-byte double-sha256 checksum.
const addressPrefix = 0x41

const b58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ValidAddress reports whether address is a well-formed TRON base58check
// address. Purely local, no node round-trip.
func ValidAddress(address string) bool {
	raw, err := base58Decode(address)
	if err != nil {
		return false
	}
	if len(raw) != 25 || raw[0] != addressPrefix {
		return false
	}
	payload, checksum := raw[:21], raw[21:]
	return bytes.Equal(checksum, doubleSHA256(payload)[:4])
}

// AddressFromPrivateKey derives the base58check address controlled by a
// secp256k1 private key (hex, optional 0x prefix).
func AddressFromPrivateKey(privateKeyHex string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	// TRON account ids are derived exactly like Ethereum addresses:
	// keccak256(pubkey)[12:].
	ethAddr := crypto.PubkeyToAddress(key.PublicKey)
	payload := append([]byte{addressPrefix}, ethAddr.Bytes()...)
	return base58CheckEncode(payload), nil
}

func base58CheckEncode(payload []byte) string {
	checksum := doubleSHA256(payload)[:4]
	return base58Encode(append(payload, checksum...))
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// No base58 codec in the dependency set; the alphabet math is small enough
// to carry here.
func base58Encode(input []byte) string {
	x := new(big.Int).SetBytes(input)
	base := big.NewInt(58)
	mod := new(big.Int)

	var out []byte
	for x.Sign() > 0 {
		x.DivMod(x, base, mod)
		out = append(out, b58Alphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, b58Alphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func base58Decode(input string) ([]byte, error) {
	x := big.NewInt(0)
	base := big.NewInt(58)
	for _, r := range input {
		idx := strings.IndexRune(b58Alphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("invalid base58 character %q", r)
		}
		x.Mul(x, base)
		x.Add(x, big.NewInt(int64(idx)))
	}
	decoded := x.Bytes()
	// restore leading zero bytes
	leading := 0
	for _, r := range input {
		if byte(r) != b58Alphabet[0] {
			break
		}
		leading++
	}
	return append(make([]byte, leading), decoded...), nil
}
