package entities

import "github.com/aarondl/null/v8"

const DefaultTheme = "light"

// UserPreferences — строка votteryy_user_preferences.
type UserPreferences struct {
	UserID               uint64    `json:"user_id"`
	Theme                string    `json:"theme"`
	EmailNotifications   bool      `json:"email_notifications"`
	SMSNotifications     bool      `json:"sms_notifications"`
	PushNotifications    bool      `json:"push_notifications"`
	NewsletterSubscribed bool      `json:"newsletter_subscribed"`
	PrivacySettings      null.JSON `json:"privacy_settings"`
	UpdatedAt            null.Time `json:"updated_at"`
}
