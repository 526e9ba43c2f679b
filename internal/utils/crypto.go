// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const requestIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRequestID returns a short random identifier attached to each
// request for log correlation.
func GenerateRequestID() string {
	b := make([]byte, 16)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(requestIDCharset))))
		if err != nil {
			b[i] = '0'
			continue
		}
		b[i] = requestIDCharset[n.Int64()]
	}
	return string(b)
}
