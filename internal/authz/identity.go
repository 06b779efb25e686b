package authz

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "user-service/pkg/errors"
)

// IsAbsent сообщает, что источник личности не заполнен: нет ключа, null или пустая строка.
func IsAbsent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return strings.TrimSpace(t.String()) == ""
	}
	return false
}

// ParseUserID приводит значение из любого источника к положительному целому.
// Одна политика для заголовка, тела, query и пути.
func ParseUserID(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case string:
		return parseUserIDString(t)
	case json.Number:
		return parseUserIDString(t.String())
	case float64:
		if t <= 0 || t != math.Trunc(t) || t >= math.MaxInt64 {
			return 0, apperrors.ErrMalformedIdentity
		}
		return uint64(t), nil
	case int:
		if t <= 0 {
			return 0, apperrors.ErrMalformedIdentity
		}
		return uint64(t), nil
	case int64:
		if t <= 0 {
			return 0, apperrors.ErrMalformedIdentity
		}
		return uint64(t), nil
	case uint64:
		if t == 0 || t > math.MaxInt64 {
			return 0, apperrors.ErrMalformedIdentity
		}
		return t, nil
	}
	return 0, apperrors.ErrMalformedIdentity
}

func parseUserIDString(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 63)
	if err != nil || id == 0 {
		return 0, apperrors.ErrMalformedIdentity
	}
	return id, nil
}
