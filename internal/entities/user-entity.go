// Файл: internal/entities/user_entity.go
package entities

import (
	"github.com/aarondl/null/v8"
)

// UserDetails — строка votteryy_user_details.
type UserDetails struct {
	UserID         uint64      `json:"user_id" db:"user_id"`
	FirstName      null.String `json:"first_name" db:"first_name"`
	LastName       null.String `json:"last_name" db:"last_name"`
	Age            null.Int    `json:"age" db:"age"`
	Gender         null.String `json:"gender" db:"gender"`
	Country        null.String `json:"country" db:"country"`
	City           null.String `json:"city" db:"city"`
	Timezone       null.String `json:"timezone" db:"timezone"`
	Language       null.String `json:"language" db:"language"`
	RegistrationIP null.String `json:"registration_ip" db:"registration_ip"`
	CollectedAt    null.Time   `json:"collected_at" db:"collected_at"`
}

// UserSummary — короткая карточка для поиска.
type UserSummary struct {
	UserID    uint64      `json:"user_id"`
	FirstName null.String `json:"first_name"`
	LastName  null.String `json:"last_name"`
	Age       null.Int    `json:"age"`
	Gender    null.String `json:"gender"`
	Country   null.String `json:"country"`
	City      null.String `json:"city"`
}

// UserListItem — строка админского списка: детали плюс флаги подписок.
type UserListItem struct {
	UserDetails
	EmailNotifications   null.Bool `json:"email_notifications"`
	NewsletterSubscribed null.Bool `json:"newsletter_subscribed"`
}

// CompleteUserData — детали пользователя вместе с предпочтениями (LEFT JOIN).
type CompleteUserData struct {
	UserDetails
	Theme                null.String `json:"theme"`
	EmailNotifications   null.Bool   `json:"email_notifications"`
	SMSNotifications     null.Bool   `json:"sms_notifications"`
	PushNotifications    null.Bool   `json:"push_notifications"`
	NewsletterSubscribed null.Bool   `json:"newsletter_subscribed"`
	PrivacySettings      null.JSON   `json:"privacy_settings"`
}

// Profile — профиль для самого пользователя и админки, с контактами из public.users.
type Profile struct {
	UserID    uint64      `json:"user_id"`
	FirstName null.String `json:"user_firstname"`
	LastName  null.String `json:"user_lastname"`
	Email     null.String `json:"user_email"`
	Phone     null.String `json:"user_phone"`
	Age       null.Int    `json:"age"`
	Gender    null.String `json:"gender"`
	Country   null.String `json:"country"`
	City      null.String `json:"city"`
	Timezone  null.String `json:"timezone"`
	Language  null.String `json:"language"`
	Roles     []string    `json:"roles"`
}
