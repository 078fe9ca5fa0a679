package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "restaurant-ops"

var ErrInvalidToken = errors.New("invalid or expired token")

// CustomClaims identify the employee acting on behalf of a company.
type CustomClaims struct {
	EmployeeID uint   `json:"employee_id"`
	CompanyID  uint   `json:"company_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, employeeID, companyID uint, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.EmployeeID == 0 || claims.CompanyID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
