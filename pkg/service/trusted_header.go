package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"user-service/internal/authz"
	"user-service/internal/dto"
	apperrors "user-service/pkg/errors"
)

// TrustedClaims — содержимое подписанного варианта заголовка.
type TrustedClaims struct {
	UserID interface{} `json:"userId"`
	Roles  []string    `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type TrustedHeaderService interface {
	// Parse разбирает значение заголовка. Пустое значение даёт ErrTrustedHeaderAbsent,
	// любое нарушение схемы — ErrInvalidTrustedHeader.
	Parse(raw string) (*dto.TrustedPayload, error)
	// Sign выпускает подписанное значение заголовка (для шлюза и тестов).
	Sign(payload dto.TrustedPayload, ttl time.Duration) (string, error)
	Signed() bool
}

type trustedHeaderService struct {
	secret    []byte
	validator echo.Validator
}

// NewTrustedHeaderService: при пустом secret принимается JSON (или base64 от JSON),
// иначе только JWT, подписанный HMAC этим секретом.
func NewTrustedHeaderService(secret string, validator echo.Validator) TrustedHeaderService {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &trustedHeaderService{secret: key, validator: validator}
}

func (s *trustedHeaderService) Signed() bool { return len(s.secret) > 0 }

func (s *trustedHeaderService) Parse(raw string) (*dto.TrustedPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.ErrTrustedHeaderAbsent
	}

	var (
		userID interface{}
		roles  []string
	)
	if s.Signed() {
		claims, err := s.parseToken(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTrustedHeader, err)
		}
		userID, roles = claims.UserID, claims.Roles
	} else {
		var body struct {
			UserID interface{} `json:"userId"`
			Roles  []string    `json:"roles"`
		}
		decoder := json.NewDecoder(bytes.NewReader(decodePayload(raw)))
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTrustedHeader, err)
		}
		userID, roles = body.UserID, body.Roles
	}

	id, err := authz.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: userId: %v", apperrors.ErrInvalidTrustedHeader, err)
	}

	payload := &dto.TrustedPayload{UserID: id, Roles: roles}
	if s.validator != nil {
		if err := s.validator.Validate(payload); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTrustedHeader, err)
		}
	}
	return payload, nil
}

func (s *trustedHeaderService) parseToken(raw string) (*TrustedClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &TrustedClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return s.secret, nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	}, jwt.WithJSONNumber())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TrustedClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidTrustedHeader
	}
	return claims, nil
}

func (s *trustedHeaderService) Sign(payload dto.TrustedPayload, ttl time.Duration) (string, error) {
	if !s.Signed() {
		b, err := json.Marshal(payload)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	now := time.Now()
	claims := &TrustedClaims{
		UserID: payload.UserID,
		Roles:  payload.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// decodePayload снимает base64, если значение не похоже на JSON-объект.
func decodePayload(raw string) []byte {
	if strings.HasPrefix(raw, "{") {
		return []byte(raw)
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if decoded, err := enc.DecodeString(raw); err == nil {
			return decoded
		}
	}
	return []byte(raw)
}
