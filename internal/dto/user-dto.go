package dto

import (
	"strings"

	"github.com/aarondl/null/v8"

	apperrors "user-service/pkg/errors"
)

// UpdateProfileDTO — частичное обновление votteryy_user_details.
// Невалидное (отсутствующее или null) поле не трогает колонку.
type UpdateProfileDTO struct {
	FirstName null.String `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  null.String `json:"last_name" validate:"omitempty,min=2,max=50"`
	Age       null.Int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender    null.String `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Country   null.String `json:"country" validate:"omitempty,max=100"`
	City      null.String `json:"city" validate:"omitempty,max=100"`
	Timezone  null.String `json:"timezone" validate:"omitempty,max=64"`
	Language  null.String `json:"language" validate:"omitempty,max=35"`
}

// IsEmpty — в запросе нет ни одного поля для обновления.
func (d *UpdateProfileDTO) IsEmpty() bool {
	return !d.FirstName.Valid && !d.LastName.Valid && !d.Age.Valid && !d.Gender.Valid &&
		!d.Country.Valid && !d.City.Valid && !d.Timezone.Valid && !d.Language.Valid
}

// CheckBlank отклоняет переданные, но пустые строки: omitempty их пропускает.
func (d *UpdateProfileDTO) CheckBlank() error {
	fields := []struct {
		name  string
		value null.String
	}{
		{"first_name", d.FirstName},
		{"last_name", d.LastName},
		{"gender", d.Gender},
		{"country", d.Country},
		{"city", d.City},
		{"timezone", d.Timezone},
		{"language", d.Language},
	}
	for _, f := range fields {
		if f.value.Valid && strings.TrimSpace(f.value.String) == "" {
			return apperrors.NewInvalidInputError("\"%s\" is not allowed to be empty", f.name)
		}
	}
	return nil
}

// UserSearchQuery — параметры GET /users/search.
type UserSearchQuery struct {
	Query  string
	Limit  uint64 `validate:"omitempty,max=100"`
	Offset uint64
}

const (
	DefaultSearchLimit = 20
	DefaultListLimit   = 20
	MaxListLimit       = 100
	MaxAge             = 150
)

// UserListQuery — фильтры админского списка пользователей.
type UserListQuery struct {
	Page      uint64
	Limit     uint64 `validate:"omitempty,max=100"`
	Search    string `validate:"omitempty,max=100"`
	Gender    string `validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Country   string `validate:"omitempty,max=100"`
	AgeMin    *int   `validate:"omitempty,min=0,max=150"`
	AgeMax    *int   `validate:"omitempty,min=0,max=150"`
	SortBy    string
	SortOrder string
}

// Normalize подставляет значения по умолчанию и приводит сортировку к белому списку.
func (q *UserListQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	switch q.SortBy {
	case "collected_at", "first_name", "last_name", "age", "country":
	default:
		q.SortBy = "collected_at"
	}
	if strings.ToUpper(q.SortOrder) == "ASC" {
		q.SortOrder = "ASC"
	} else {
		q.SortOrder = "DESC"
	}
}

func (q *UserListQuery) Offset() uint64 {
	return (q.Page - 1) * q.Limit
}

// AgeRange возвращает границы возраста; фильтр нужен, только если границы сужены.
func (q *UserListQuery) AgeRange() (lo, hi int, ok bool) {
	lo, hi = 0, MaxAge
	if q.AgeMin != nil {
		lo = *q.AgeMin
	}
	if q.AgeMax != nil {
		hi = *q.AgeMax
	}
	return lo, hi, lo > 0 || hi < MaxAge
}

// UserListResponse — страница админского списка.
type UserListResponse struct {
	Users      interface{} `json:"users"`
	Pagination Pagination  `json:"pagination"`
}
