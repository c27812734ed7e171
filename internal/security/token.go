package security

import (
	"errors"
	"strconv"
	"time"

	"ngo-admin-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	issuer   = "ngo-admin-backend"
	audience = "admin-dashboard"
)

// AdminClaims carries the admin session inside an access token.
type AdminClaims struct {
	AdminID int64            `json:"admin_id"`
	Email   string           `json:"email,omitempty"`
	OrgCode string           `json:"ngo_code,omitempty"`
	Role    domain.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// Session returns the session the claims describe.
func (c *AdminClaims) Session() domain.Session {
	return domain.Session{AdminID: c.AdminID, Email: c.Email, OrgCode: c.OrgCode, Role: c.Role}
}

type TokenManager interface {
	GenerateAccessToken(sess domain.Session) (string, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager signs HS256 tokens that expire after ttl. A zero ttl
// means one hour.
func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *tokenManager) GenerateAccessToken(sess domain.Session) (string, error) {
	now := m.now()
	claims := AdminClaims{
		AdminID: sess.AdminID,
		Email:   sess.Email,
		OrgCode: sess.OrgCode,
		Role:    sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sess.AdminID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AdminID == 0 && claims.Subject != "" {
		claims.AdminID, _ = strconv.ParseInt(claims.Subject, 10, 64)
	}
	// Every admin except a super admin is bound to one NGO
	if claims.AdminID == 0 || (claims.Role != domain.AdminRoleSuperAdmin && claims.OrgCode == "") {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
