package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/directorio-backend/internal/app/model"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
)

var employeeBuckets = map[string]bool{
	model.EmployeesMicro:      true,
	model.EmployeesSmall:      true,
	model.EmployeesMedium:     true,
	model.EmployeesLarge:      true,
	model.EmployeesEnterprise: true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("company_category", func(fl validator.FieldLevel) bool {
		return model.CompanyCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("employee_bucket", func(fl validator.FieldLevel) bool {
		return employeeBuckets[fl.Field().String()]
	})
	return v
}

// validateInput runs struct tag validation and maps failures onto a
// ValidationError keyed by json field name.
func validateInput(code string, input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return &apperrors.ValidationError{
		Code:    code,
		Message: "Los datos ingresados no son válidos",
		Fields:  fields,
	}
}

// fieldPath drops the root struct name: "BasicInfoInput.name" -> "name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
