package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information an interviewer token encodes
type InterviewerClaims struct {
	InstanceID string `json:"instance_id,omitempty"`
	// capi or cati, what the interviewer is set up for
	InterviewMode string `json:"interview_mode,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewInterviewerToken(expiresIn time.Duration, interviewerID string, instanceID string, interviewMode string, secretKey string) (tokenString string, err error) {
	claims := InterviewerClaims{
		instanceID,
		interviewMode,
		jwt.RegisteredClaims{
			Subject:   interviewerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateInterviewerToken(tokenString string, secretKey string) (claims *InterviewerClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &InterviewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*InterviewerClaims)
	valid = valid && token.Valid
	return
}
