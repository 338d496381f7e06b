package bridge

import (
	"crypto/rand"
	"math/big"
)

const (
	localPartCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordCharset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	localPartLength = 10
	passwordLength  = 12
)

// randomString returns a cryptographically random string over charset
func randomString(length int, charset string) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[num.Int64()]
	}
	return string(out), nil
}
