package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/geocoder89/todohub/internal/apperr"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation rule names reported back to clients.
const (
	RuleNotBlank     = "not_blank"
	RuleMinMaxLength = "min_max_length"
	RuleInvalidEmail = "invalid_email"
	RuleInvalidType  = "invalid_type"
	RuleInvalidJSON  = "invalid_json"
)

// BindJSON decodes and validates the body into out. On failure the
// validation envelope has already been written and false is returned.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		respond.Error(ctx, bindError(err, out))
		return false
	}
	return true
}

func violation(field, rule string) string {
	return field + ": {" + rule + "}"
}

func bindError(err error, out interface{}) *apperr.Error {
	rootType := baseStructType(out)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		variables := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := jsonPathFromValidatorError(rootType, fieldError)
			variables = append(variables, violation(field, ruleName(fieldError.Tag())))
		}
		return apperr.Validation(variables...)
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonPathFromDotPath(rootType, typeError.Field)
		if field == "" {
			field = "body"
		}
		return apperr.Validation(violation(field, RuleInvalidType))
	}

	if errors.Is(err, io.EOF) {
		return apperr.New(apperr.MissingInput, http.StatusBadRequest, "body")
	}

	// syntax errors, truncated bodies and anything else the decoder rejects
	return apperr.Validation(violation("body", RuleInvalidJSON))
}

func ruleName(tag string) string {
	switch tag {
	case "required":
		return RuleNotBlank
	case "min", "max", "len":
		return RuleMinMaxLength
	case "email":
		return RuleInvalidEmail
	default:
		return tag
	}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonPathFromValidatorError turns "RegisterRequest.Name" into "name".
func jsonPathFromValidatorError(rootType reflect.Type, fieldError validator.FieldError) string {
	namespace := fieldError.StructNamespace()
	if namespace == "" {
		return fieldError.Field()
	}

	parts := strings.Split(namespace, ".")
	if rootType != nil && len(parts) > 0 && parts[0] == rootType.Name() {
		parts = parts[1:]
	}

	if path := mapStructPath(rootType, parts); path != "" {
		return path
	}

	return fieldError.Field()
}

func jsonPathFromDotPath(rootType reflect.Type, dotPath string) string {
	dotPath = strings.TrimSpace(dotPath)
	if dotPath == "" {
		return ""
	}

	return mapStructPath(rootType, strings.Split(dotPath, "."))
}

// mapStructPath follows Go field names through rootType and returns the
// matching json names. Segments it cannot resolve are kept as is.
func mapStructPath(rootType reflect.Type, parts []string) string {
	current := rootType
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		name, suffix, _ := strings.Cut(part, "[")
		if suffix != "" {
			suffix = "[" + suffix
		}

		jsonName := name
		var next reflect.Type

		for current != nil && current.Kind() == reflect.Pointer {
			current = current.Elem()
		}
		if current != nil && current.Kind() == reflect.Struct {
			if sf, ok := current.FieldByName(name); ok {
				jsonName = jsonFieldName(sf)
				next = elemType(sf.Type)
			} else if sf, ok := fieldByJSONName(current, name); ok {
				next = elemType(sf.Type)
			}
		}

		out = append(out, jsonName+suffix)
		current = next
	}

	return strings.Join(out, ".")
}

func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		if jsonFieldName(t.Field(i)) == name {
			return t.Field(i), true
		}
	}
	return reflect.StructField{}, false
}

func jsonFieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func elemType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}
	return nil
}
