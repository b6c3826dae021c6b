package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hotel_booking/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report API field names: json tag first, then db tag
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "db"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct runs struct tag validation and converts failures into a
// domain.ValidationError keyed by API field names.
func validateStruct(s any) error {
	return fieldErrors(validate.Struct(s))
}

// validateExcept skips the named Go fields; used for rows whose foreign
// keys are assigned only after the parent is inserted.
func validateExcept(s any, fields ...string) error {
	return fieldErrors(validate.StructExcept(s, fields...))
}

func fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &domain.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if numeric {
			return "ensure this value is greater than or equal to " + fe.Param()
		}
		return "ensure this field has at least " + fe.Param() + " characters"
	case "max":
		if numeric {
			return "ensure this value is less than or equal to " + fe.Param()
		}
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	case "email":
		return "enter a valid email address"
	case "e164":
		return "enter a valid phone number"
	case "numeric":
		return "a valid number is required"
	}
	return "invalid value"
}

// Date is a calendar day carried as YYYY-MM-DD on the wire.
type Date struct{ time.Time }

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string")
	}
	p, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date has wrong format, use YYYY-MM-DD")
	}
	*d = p
	return nil
}

// NullableDate tells apart an absent field (Set=false), an explicit null
// (Set=true, Valid=false) and a value.
type NullableDate struct {
	Set   bool
	Valid bool
	Date  Date
}

func (n *NullableDate) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		return nil
	}
	if err := n.Date.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullableDate) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Date.Time
	return &t
}
