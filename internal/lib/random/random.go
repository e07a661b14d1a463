package random

import (
	"crypto/rand"
	"math/big"
)

const (
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	mixedAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	AccessKeyLength  = 24
	SlugSuffixLength = 6
)

// AccessKey генерирует секрет для доступа к закрытой галерее
func AccessKey() (string, error) {
	return stringFrom(mixedAlnum, AccessKeyLength)
}

// SlugSuffix генерирует короткий суффикс для уникальности slug
func SlugSuffix() (string, error) {
	return stringFrom(lowerAlnum, SlugSuffixLength)
}

func stringFrom(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)

	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}

	return string(buf), nil
}
