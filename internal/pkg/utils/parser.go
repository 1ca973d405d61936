package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// ParseAmountOrZero implements the console's "parse or zero" money policy:
// malformed numeric input degrades to 0 instead of failing the edit.
func ParseAmountOrZero(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

func ParseJWT(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if operatorID, ok := claims["operator_id"].(string); ok {
			return operatorID, nil
		}
	}

	return "", errors.New("invalid token")
}
