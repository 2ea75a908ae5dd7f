package idgen

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	AccessCodeLength = 8
	// No 0/O or 1/I so codes survive being read off a phone screen at a gate.
	accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Generator interface {
	NewID() string
	NewAccessCode() string
}

type RandomGenerator struct{}

func NewRandomGenerator() Generator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() string {
	return uuid.NewString()
}

func (g *RandomGenerator) NewAccessCode() string {
	var b strings.Builder
	b.Grow(AccessCodeLength)
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := 0; i < AccessCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return fallbackAccessCode()
		}
		b.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return b.String()
}

func fallbackAccessCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:AccessCodeLength]
}
