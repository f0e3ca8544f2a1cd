package content

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to the message shown to the editor.
type FieldErrors map[string]string

// ValidationError collects every field-level problem found while saving a
// record. Blocks holds per-child errors of a body stream, keyed by index.
type ValidationError struct {
	Fields FieldErrors
	Blocks map[int]FieldErrors
}

// Error renders the problems in a stable order.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}

	indexes := make([]int, 0, len(e.Blocks))
	for index := range e.Blocks {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	for _, index := range indexes {
		fields := e.Blocks[index]
		for _, name := range sortedKeys(fields) {
			parts = append(parts, fmt.Sprintf("body[%d].%s: %s", index, name, fields[name]))
		}
	}

	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AddField records a problem on a top-level field. The first message wins.
func (e *ValidationError) AddField(name, message string) {
	if e.Fields == nil {
		e.Fields = FieldErrors{}
	}
	if _, exists := e.Fields[name]; !exists {
		e.Fields[name] = message
	}
}

// AddBlock records a problem on a field of the index-th body child.
func (e *ValidationError) AddBlock(index int, name, message string) {
	if e.Blocks == nil {
		e.Blocks = map[int]FieldErrors{}
	}
	fields := e.Blocks[index]
	if fields == nil {
		fields = FieldErrors{}
		e.Blocks[index] = fields
	}
	if _, exists := fields[name]; !exists {
		fields[name] = message
	}
}

// Empty reports whether no problem was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Blocks) == 0)
}

// Err returns e, or nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func sortedKeys(fields FieldErrors) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("weburl", isWebURL); err != nil {
		panic(err)
	}
	return v
}

var webURLSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

func isWebURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return webURLSchemes[strings.ToLower(parsed.Scheme)] && parsed.Hostname() != ""
}

// ValidateStruct checks v against its validate tags. Constraint violations
// come back as *ValidationError keyed by json field name.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.AddField(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	case "weburl":
		return "Enter a valid URL."
	case "datetime":
		return "Enter a valid date."
	case "gt":
		return "Select a valid image."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
