package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestParseAmountOrZero(t *testing.T) {
	t.Run("Valid amounts parse", func(t *testing.T) {
		assert.Equal(t, 150.75, ParseAmountOrZero("150.75"))
		assert.Equal(t, 150.75, ParseAmountOrZero("  150.75  "))
		assert.Equal(t, -5.0, ParseAmountOrZero("-5"))
	})

	t.Run("Malformed input degrades to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ParseAmountOrZero(""))
		assert.Equal(t, 0.0, ParseAmountOrZero("abc"))
		assert.Equal(t, 0.0, ParseAmountOrZero("12,50"))
		assert.Equal(t, 0.0, ParseAmountOrZero("NaN"))
	})

	t.Run("Infinities degrade to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ParseAmountOrZero("Inf"))
		assert.Equal(t, 0.0, ParseAmountOrZero("+Inf"))
		assert.Equal(t, 0.0, ParseAmountOrZero("-Inf"))
		assert.Equal(t, 0.0, ParseAmountOrZero("Infinity"))
	})
}

func TestParseJWT(t *testing.T) {
	secret := "test-secret"

	signed := func(claims jwt.MapClaims, key string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(key))
		assert.NoError(t, err)
		return s
	}

	t.Run("Valid token yields the operator ID", func(t *testing.T) {
		tokenString := signed(jwt.MapClaims{"operator_id": "op-7"}, secret)
		operatorID, err := ParseJWT(tokenString, secret)
		assert.NoError(t, err)
		assert.Equal(t, "op-7", operatorID)
	})

	t.Run("Wrong secret is rejected", func(t *testing.T) {
		tokenString := signed(jwt.MapClaims{"operator_id": "op-7"}, "other-secret")
		_, err := ParseJWT(tokenString, secret)
		assert.Error(t, err)
	})

	t.Run("Missing operator claim is rejected", func(t *testing.T) {
		tokenString := signed(jwt.MapClaims{"sub": "op-7"}, secret)
		_, err := ParseJWT(tokenString, secret)
		assert.Error(t, err)
	})
}
