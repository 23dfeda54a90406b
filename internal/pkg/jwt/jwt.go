package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(claims user.Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(c user.Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     c.UserID,
		"email":       c.Email,
		"full_name":   c.FullName,
		"employee_id": returnValueOrNil(c.EmployeeID),
		"company_id":  c.CompanyID,
		"role":        string(c.Role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (user.Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	if tokenType, _ := raw["type"].(string); tokenType != "access" {
		return user.Claims{}, fmt.Errorf("token is not an access token")
	}

	var c user.Claims
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.FullName, _ = raw["full_name"].(string)
	c.CompanyID, _ = raw["company_id"].(string)
	if role, ok := raw["role"].(string); ok {
		c.Role = user.Role(role)
	}
	if employeeID, ok := raw["employee_id"].(string); ok && employeeID != "" {
		c.EmployeeID = &employeeID
	}

	if c.UserID == "" || c.CompanyID == "" {
		return user.Claims{}, fmt.Errorf("user_id or company_id claim is missing")
	}
	return c, nil
}

func returnValueOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
