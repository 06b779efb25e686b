// Файл: internal/dto/claims_dto.go
package dto

// TrustedPayload — проверенное содержимое доверенного заголовка от шлюза.
// Roles может отсутствовать, тогда роли берутся из БД.
type TrustedPayload struct {
	UserID uint64   `json:"userId" validate:"required,gt=0"`
	Roles  []string `json:"roles,omitempty" validate:"omitempty,max=32,dive,required,max=64"`
}

// HasRoles сообщает, несёт ли заголовок авторитетный список ролей.
func (p *TrustedPayload) HasRoles() bool {
	return p != nil && len(p.Roles) > 0
}
