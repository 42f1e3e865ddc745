package idgen

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	idAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	// Join codes avoid characters that are easy to misread over the
	// shoulder of another player: 0/O, 1/I/L.
	codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
	CodeLen      = 6
)

func init() {
	if len(idAlphabet) != 32 {
		panic("must not happen")
	}
	for i := 1; i < len(idAlphabet); i++ {
		if idAlphabet[i-1] >= idAlphabet[i] {
			panic("must not happen")
		}
	}
}

func ID() string {
	// This ID generator follows https://github.com/ulid/spec, but is lowercase and not monotonic.
	var b strings.Builder
	ts := uint64(time.Now().UnixMilli()) & ((1 << 48) - 1)
	for i := 45; i >= 0; i -= 5 {
		_ = b.WriteByte(idAlphabet[(ts>>i)&31])
	}
	for range 2 {
		r := rand.Uint64()
		for range 8 {
			_ = b.WriteByte(idAlphabet[r&31])
			r >>= 5
		}
	}
	return b.String()
}

func JoinCode() (string, error) {
	var b strings.Builder
	var bigLen = big.NewInt(int64(len(codeAlphabet)))
	for range CodeLen {
		idx, err := crand.Int(crand.Reader, bigLen)
		if err != nil {
			return "", fmt.Errorf("crypto rand: %w", err)
		}
		_ = b.WriteByte(codeAlphabet[int(idx.Int64())])
	}
	return b.String(), nil
}

func IsJoinCode(s string) bool {
	if len(s) != CodeLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

func NormalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
