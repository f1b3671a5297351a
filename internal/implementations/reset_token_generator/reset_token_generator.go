package resettokengenerator

import (
	"ambrotos/internal/core/domain/reset"
	"crypto/rand"
	"encoding/hex"
)

const tokenByteLength = 32

// Generator produces reset tokens from the OS CSPRNG. A predictable
// source must never be substituted here.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateToken() reset.Token {
	b := make([]byte, tokenByteLength)
	if _, err := rand.Read(b); err != nil {
		panic("Could not read from the CSPRNG: " + err.Error())
	}
	return reset.Token(hex.EncodeToString(b))
}
