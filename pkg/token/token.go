package token

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// codeAlphabet excludes lookalike characters (0/O, 1/I/L) so codes can be
// read aloud
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generate returns a crypto-secure random string of length n
// The random string contains the following characters:
// ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_
func Generate(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	// base64 increases size by ~33%
	return base64.RawURLEncoding.EncodeToString(b)[0:n], nil
}

// GenerateRoomCode returns a crypto-secure random room code of length n
func GenerateRoomCode(n int) (string, error) {
	code := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		code[i] = codeAlphabet[index.Int64()]
	}

	return string(code), nil
}
