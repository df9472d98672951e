package validation

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/domain/common"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido y lo devuelve
func ValidateUUID(value, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.New(fieldName + " must be a valid UUID")
	}
	return id, nil
}

// ValidateURL valida que un string sea una URL http(s) absoluta
func ValidateURL(value, fieldName string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(fieldName + " must be a valid http(s) URL")
	}
	return nil
}

// ValidatePastDate parsea una fecha YYYY-MM-DD que no puede estar en el futuro
func ValidatePastDate(value, fieldName string) (common.Date, error) {
	d, err := common.ParseDate(value)
	if err != nil {
		return common.Date{}, errors.New(fieldName + " must have the format YYYY-MM-DD")
	}
	if d.After(time.Now()) {
		return common.Date{}, errors.New(fieldName + " cannot be in the future")
	}
	return d, nil
}

// ValidateDateRange valida que la fecha de fin no sea anterior a la de inicio
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// ValidateSlug valida un slug en minúsculas separado por guiones
func ValidateSlug(slug string) error {
	if err := ValidateRequired(slug, "slug"); err != nil {
		return err
	}
	for _, r := range slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return errors.New("slug may only contain lowercase letters, digits and dashes")
		}
	}
	return nil
}

// SkillValidation contiene validaciones específicas para el catálogo de habilidades
type SkillValidation struct{}

// ValidateSkillName valida el nombre de una habilidad
func (v SkillValidation) ValidateSkillName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 1, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}

// ValidateSkillCategory valida la categoría de una habilidad
func (v SkillValidation) ValidateSkillCategory(category string) error {
	if err := ValidateRequired(category, "category"); err != nil {
		return err
	}
	return ValidateMaxLength(category, 50, "category")
}

// TitleValidation valida títulos y descripciones de recursos
type TitleValidation struct {
	MaxTitle       int
	MaxDescription int
}

// ValidateTitle valida el título de un recurso
func (v TitleValidation) ValidateTitle(title string) error {
	if err := ValidateRequired(title, "title"); err != nil {
		return err
	}
	if v.MaxTitle > 0 {
		return ValidateMaxLength(title, v.MaxTitle, "title")
	}
	return nil
}

// ValidateDescription valida la descripción de un recurso
func (v TitleValidation) ValidateDescription(description string) error {
	if v.MaxDescription > 0 {
		return ValidateMaxLength(description, v.MaxDescription, "description")
	}
	return nil
}
