package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 44.0, Round(43.999999))
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, 3.99, Round(3.99))
}

func TestFixedAndBRL(t *testing.T) {
	assert.Equal(t, "44.00", Fixed(44))
	assert.Equal(t, "R$ 5.99", BRL(5.99))
	assert.Equal(t, "R$ 0.00", BRL(0))
}

func TestBRLComma(t *testing.T) {
	assert.Equal(t, "R$ 50,00", BRLComma(50))
	assert.Equal(t, "R$ 1.234,50", BRLComma(1234.5))
	assert.Equal(t, "R$ 1.000.000,00", BRLComma(1000000))
	assert.Equal(t, "-R$ 2,10", BRLComma(-2.1))
}

func TestParseCents(t *testing.T) {
	assert.InDelta(t, 50.0, ParseCents("5000"), 1e-9)
	assert.InDelta(t, 1234.5, ParseCents("R$ 1.234,50"), 1e-9)
	assert.Zero(t, ParseCents(""))
}
