package dto

import (
	"strings"

	"github.com/aarondl/null/v8"

	apperrors "user-service/pkg/errors"
)

type UpdatePreferencesDTO struct {
	Theme                null.String `json:"theme" validate:"omitempty,oneof=light dark"`
	EmailNotifications   null.Bool   `json:"email_notifications"`
	SMSNotifications     null.Bool   `json:"sms_notifications"`
	PushNotifications    null.Bool   `json:"push_notifications"`
	NewsletterSubscribed null.Bool   `json:"newsletter_subscribed"`
	PrivacySettings      null.JSON   `json:"privacy_settings" validate:"omitempty,json_object"`
}

func (d *UpdatePreferencesDTO) IsEmpty() bool {
	return !d.Theme.Valid && !d.EmailNotifications.Valid && !d.SMSNotifications.Valid &&
		!d.PushNotifications.Valid && !d.NewsletterSubscribed.Valid && !d.PrivacySettings.Valid
}

func (d *UpdatePreferencesDTO) CheckBlank() error {
	if d.Theme.Valid && strings.TrimSpace(d.Theme.String) == "" {
		return apperrors.NewInvalidInputError("\"theme\" is not allowed to be empty")
	}
	return nil
}
