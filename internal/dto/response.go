package dto

import "user-service/internal/entities"

type Pagination struct {
	Total      uint64 `json:"total"`
	Page       uint64 `json:"page"`
	Limit      uint64 `json:"limit"`
	TotalPages uint64 `json:"totalPages"`
}

func NewPagination(total, page, limit uint64) Pagination {
	var totalPages uint64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// ProfileEnvelope — ответ профиля, обёрнутый в ключ profile.
type ProfileEnvelope struct {
	Profile *entities.Profile `json:"profile"`
}
