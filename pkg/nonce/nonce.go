// Package nonce generates the single-use values handed to the Link
// flow so it can re-open after an OAuth redirect.
package nonce

import (
	"fmt"

	"github.com/hashicorp/go-secure-stdlib/nonceutil"
)

// Generator hands out link nonces. The underlying service guarantees
// uniqueness; nothing here redeems a nonce, the Link client consumes
// it on the redirect round trip.
type Generator struct {
	service nonceutil.NonceService
}

func NewGenerator() (*Generator, error) {
	service := nonceutil.NewNonceService()
	if err := service.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize nonce service: %w", err)
	}
	return &Generator{service: service}, nil
}

func (g *Generator) Generate() (string, error) {
	value, _, err := g.service.Get()
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return value, nil
}
