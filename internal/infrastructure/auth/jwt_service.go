package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/you/identitysvc/domain"
)

// JWTServiceImpl implements domain.TokenGenerator over HS256-signed
// JWTs.
type JWTServiceImpl struct {
	secretKey  []byte
	issuer     string
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT token generator.
func NewJWTService(secretKey, issuer string, refreshTTL time.Duration) domain.TokenGenerator {
	if refreshTTL <= 0 {
		refreshTTL = domain.RefreshTokenTTL
	}
	return &JWTServiceImpl{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken implements domain.TokenGenerator. The claims
// carry the subject id, email, display name and role names.
func (j *JWTServiceImpl) GenerateAccessToken(user *domain.User, ttl time.Duration) (domain.Token, error) {
	if ttl <= 0 {
		ttl = domain.AccessTokenTTL
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email.String(),
		"name":  user.Name,
		"roles": user.RoleNames(),
		"type":  "access",
		"iss":   j.issuer,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.NewToken(signed, &exp), nil
}

// GenerateRefreshToken implements domain.TokenGenerator.
func (j *JWTServiceImpl) GenerateRefreshToken(userID domain.UserID) (domain.RefreshToken, error) {
	now := time.Now()
	exp := now.Add(j.refreshTTL)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"jti":  jti,
		"type": "refresh",
		"iss":  j.issuer,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return domain.NewRefreshToken(signed, userID, exp, jti), nil
}

// ValidateToken implements domain.TokenGenerator.
func (j *JWTServiceImpl) ValidateToken(tokenValue string) bool {
	_, err := j.DecodeToken(tokenValue)
	return err == nil
}

// DecodeToken implements domain.TokenGenerator. It rejects non-HMAC
// signing methods, bad signatures and expired tokens.
func (j *JWTServiceImpl) DecodeToken(tokenValue string) (map[string]any, error) {
	token, err := jwt.Parse(tokenValue, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out, nil
}
