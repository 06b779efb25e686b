package validation

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("json_object", isJSONObject); err != nil {
		return err
	}
	return nil
}

// isJSONObject - строка должна быть JSON-объектом, не массивом и не скаляром
func isJSONObject(fl validator.FieldLevel) bool {
	var obj map[string]interface{}
	return json.Unmarshal([]byte(fl.Field().String()), &obj) == nil && obj != nil
}
