package content

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"time"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

// ValidateEntryData checks a payload against the content type's field
// schema. excludeEntryID skips the entry itself in uniqueness checks on
// update.
func ValidateEntryData(ct models.ContentType, data map[string]interface{}, excludeEntryID *uint) error {
	fields := make(map[string]string)

	for _, field := range ct.Fields {
		value, exists := data[field.Name]

		if !exists || value == nil || value == "" {
			if field.Required {
				fields[field.Name] = "field is required"
				continue
			}
			if field.DefaultValue != "" {
				data[field.Name] = field.DefaultValue
			}
			continue
		}

		var err error
		switch field.Type {
		case "string", "text":
			err = validateString(field, value)
		case "email":
			err = validateEmail(field, value)
		case "url":
			err = validateURL(field, value)
		case "number":
			err = validateNumber(field, value)
		case "boolean":
			if _, ok := value.(bool); !ok {
				err = fmt.Errorf("must be boolean")
			}
		case "date":
			err = validateDate(field, value)
		case "media":
			err = validateMedia(field, value)
		}
		if err != nil {
			fields[field.Name] = err.Error()
			continue
		}

		if field.Unique {
			if err := checkUniqueness(ct.ID, field.Name, value, excludeEntryID); err != nil {
				fields[field.Name] = err.Error()
			}
		}
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

func validateString(field models.ContentField, value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be string")
	}

	if field.MinLength != nil && len(strVal) < *field.MinLength {
		return fmt.Errorf("must be at least %d characters", *field.MinLength)
	}
	if field.MaxLength != nil && len(strVal) > *field.MaxLength {
		return fmt.Errorf("must not exceed %d characters", *field.MaxLength)
	}

	if field.Pattern != "" {
		matched, err := regexp.MatchString(field.Pattern, strVal)
		if err != nil {
			return fmt.Errorf("invalid pattern configured")
		}
		if !matched {
			return fmt.Errorf("does not match required pattern")
		}
	}
	return nil
}

func validateEmail(field models.ContentField, value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be string")
	}
	if _, err := mail.ParseAddress(strVal); err != nil {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

func validateURL(field models.ContentField, value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be string")
	}
	parsed, err := url.Parse(strVal)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("must be a valid URL")
	}
	return nil
}

func validateNumber(field models.ContentField, value interface{}) error {
	num, ok := value.(float64)
	if !ok {
		return fmt.Errorf("must be number")
	}
	if field.MinValue != nil && num < *field.MinValue {
		return fmt.Errorf("must be at least %v", *field.MinValue)
	}
	if field.MaxValue != nil && num > *field.MaxValue {
		return fmt.Errorf("must not exceed %v", *field.MaxValue)
	}
	return nil
}

func validateDate(field models.ContentField, value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a date string")
	}
	if _, err := time.Parse(time.RFC3339, strVal); err != nil {
		if _, err := time.Parse("2006-01-02", strVal); err != nil {
			return fmt.Errorf("must be RFC3339 or YYYY-MM-DD")
		}
	}
	return nil
}

func validateMedia(field models.ContentField, value interface{}) error {
	// Media fields store the media file ID; JSON numbers arrive as float64.
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("must be a media file ID")
	}
	return nil
}

func checkUniqueness(contentTypeID uint, fieldName string, value interface{}, excludeEntryID *uint) error {
	var entries []models.ContentEntry
	query := database.DB.Where("content_type_id = ?", contentTypeID)
	if excludeEntryID != nil {
		query = query.Where("id <> ?", *excludeEntryID)
	}
	if err := query.Find(&entries).Error; err != nil {
		return fmt.Errorf("uniqueness check failed")
	}

	for _, entry := range entries {
		var data map[string]interface{}
		if err := json.Unmarshal(entry.Data, &data); err != nil {
			continue
		}
		if existing, ok := data[fieldName]; ok && existing == value {
			return fmt.Errorf("must be unique, value already in use")
		}
	}
	return nil
}
