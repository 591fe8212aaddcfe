// Package validation 基于 go-playground/validator 的表单校验
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/user/streamflix/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError 一组字段错误
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Messages 按字段名返回错误信息，供模板内联显示
func (e *RequestValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// NewError 构造单字段错误，用于业务层的唯一性等检查
func NewError(field, message string) *RequestValidationError {
	return &RequestValidationError{Fields: []FieldError{{Field: field, Tag: "custom", Message: message}}}
}

// GetValidator 返回单例校验器
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// 错误中使用 form 标签名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return model.Category(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct 校验结构体，通过时返回 nil
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &RequestValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return out
}

// message 把校验标签翻译成面向用户的提示
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo é obrigatório."
	case "email":
		return "Informe um endereço de email válido."
	case "url", "http_url":
		return "Informe uma URL válida."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Certifique-se de que o valor tenha no máximo %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Certifique-se de que o valor seja menor ou igual a %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Certifique-se de que o valor tenha no mínimo %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Certifique-se de que o valor seja maior ou igual a %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Certifique-se de que o valor seja maior ou igual a %s.", fe.Param())
	case "eqfield":
		return "Os dois campos de senha não correspondem."
	case "category":
		return "Escolha uma categoria válida."
	case "username":
		return "Use apenas letras, números e os caracteres @/./+/-/_."
	case "oneof":
		return fmt.Sprintf("Valor deve ser um de: %s.", fe.Param())
	default:
		return fmt.Sprintf("Valor inválido (%s).", fe.Tag())
	}
}
