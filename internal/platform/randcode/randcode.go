// Package randcode genera códigos aleatorios cortos (contraseñas temporales,
// códigos de acceso) con crypto/rand.
package randcode

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	Upper        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func Generate(n int, alphabet string) (string, error) {
	if n <= 0 || alphabet == "" {
		return "", errors.New("randcode: invalid length or alphabet")
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
