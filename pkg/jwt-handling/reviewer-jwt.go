package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a reviewer token encodes
type ReviewerClaims struct {
	InstanceID string `json:"instance_id,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewReviewerToken(expiresIn time.Duration, reviewerID string, instanceID string, isAdmin bool, secretKey string) (tokenString string, err error) {
	claims := ReviewerClaims{
		instanceID,
		isAdmin,
		jwt.RegisteredClaims{
			Subject:   reviewerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateReviewerToken(tokenString string, secretKey string) (claims *ReviewerClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &ReviewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*ReviewerClaims)
	valid = valid && token.Valid
	return
}
