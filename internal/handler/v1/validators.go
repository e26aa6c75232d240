package v1

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the Brazilian document, phone and time-of-day tags to gin's
// binding validator. Call it once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return registerValidators(v)
}

func registerValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonTagName)

	tags := map[string]validator.Func{
		"cpf":      validateCPF,
		"cnpj":     validateCNPJ,
		"br_phone": validatePhone,
		"hhmm":     validateTimeOfDay,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %s validator: %w", tag, err)
		}
	}
	return nil
}

func validateCPF(fl validator.FieldLevel) bool {
	_, err := document.New(fl.Field().String(), document.KindCPF)
	return err == nil
}

func validateCNPJ(fl validator.FieldLevel) bool {
	_, err := document.New(fl.Field().String(), document.KindCNPJ)
	return err == nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return contact.IsValidPhone(fl.Field().String())
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := medication.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// fieldErrors flattens binding failures into "field: rule" messages; nil when err is not
// a validation failure.
func fieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonName(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "cpf":
		return field + " must be a valid CPF"
	case "cnpj":
		return field + " must be a valid CNPJ"
	case "br_phone":
		return field + " must be a valid Brazilian phone number"
	case "hhmm":
		return field + " must be a time in HH:MM format"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}
	return field + " is invalid"
}

// jsonName drops the top-level struct name from a validator namespace, leaving the
// JSON path such as "address.zip_code".
func jsonName(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func jsonTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
