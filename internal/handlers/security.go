package handlers

import (
	"strings"
)

// SensitiveFieldPatterns match setting names whose values are never returned
// by the API.
var SensitiveFieldPatterns = []string{
	"auth_token",
	"api_key",
	"apikey",
	"jwt_secret",
	"secret",
	"password",
	"passwd",
	"token",
	"credential",
	"private_key",
	"database_url",
	"connection_string",
}

// FilterSensitiveSettings masks the values of sensitive settings. Empty values
// stay empty so callers can tell unset from set.
func FilterSensitiveSettings(settings map[string]string) map[string]string {
	if settings == nil {
		return nil
	}

	filtered := make(map[string]string, len(settings))
	for key, value := range settings {
		if isSensitiveField(key) && value != "" {
			filtered[key] = "[REDACTED]"
			continue
		}
		filtered[key] = value
	}
	return filtered
}

// FilterSensitiveFields applies FilterSensitiveSettings to nested maps.
func FilterSensitiveFields(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}

	filtered := make(map[string]interface{}, len(data))
	for key, value := range data {
		if isSensitiveField(key) {
			filtered[key] = "[REDACTED]"
			continue
		}
		if nested, ok := value.(map[string]interface{}); ok {
			filtered[key] = FilterSensitiveFields(nested)
		} else {
			filtered[key] = value
		}
	}
	return filtered
}

func isSensitiveField(fieldName string) bool {
	fieldLower := strings.ToLower(fieldName)
	for _, pattern := range SensitiveFieldPatterns {
		if strings.Contains(fieldLower, pattern) {
			return true
		}
	}
	return false
}
