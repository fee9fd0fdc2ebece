package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echo.Validator の実装。リクエスト構造体の validate タグを検証する。
type RequestValidator struct {
	v *validator.Validate
}

// DI
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーメッセージは json 名で出す
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = f.Tag.Get("form")
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return &ValidationError{err: err}
	}
	return nil
}

// 最初の項目だけを人が読める文にする
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	var fes validator.ValidationErrors
	if !errors.As(e.err, &fes) || len(fes) == 0 {
		return "Invalid request"
	}
	fe := fes[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func (e *ValidationError) Unwrap() error { return e.err }
