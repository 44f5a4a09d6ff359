package llmtool

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct tags read by FieldsFromStruct: `json` for the name, `prompt_desc`
// for the description, `prompt` for "optional" / "-" overrides.
const (
	nameTag   = "json"
	descTag   = "prompt_desc"
	promptTag = "prompt"
)

// FieldsFromStruct builds prompt fields from a Go struct using tags.
// Fields are required unless tagged `prompt:"optional"`; `prompt:"-"` skips.
func FieldsFromStruct(v any) ([]PromptField, error) {
	if v == nil {
		return nil, fmt.Errorf("llmtool: struct is nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("llmtool: expected struct, got %s", t.Kind())
	}
	fields := make([]PromptField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		opts := strings.Split(f.Tag.Get(promptTag), ",")
		if contains(opts, "-") || contains(opts, "omit") {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		fields = append(fields, PromptField{
			Name:        name,
			Type:        typeString(f.Type),
			Required:    !contains(opts, "optional"),
			Description: strings.TrimSpace(f.Tag.Get(descTag)),
		})
	}
	return fields, nil
}

// MustFieldsFromStruct panics on error; useful for prompt spec literals.
func MustFieldsFromStruct(v any) []PromptField {
	fields, err := FieldsFromStruct(v)
	if err != nil {
		panic(err)
	}
	return fields
}

func contains(parts []string, want string) bool {
	for _, p := range parts {
		if strings.TrimSpace(p) == want {
			return true
		}
	}
	return false
}

func fieldName(f reflect.StructField) string {
	tag := strings.TrimSpace(f.Tag.Get(nameTag))
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name := strings.Split(tag, ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

func typeString(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float64"
	case reflect.Slice:
		return "[]" + typeString(t.Elem())
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", typeString(t.Key()), typeString(t.Elem()))
	case reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return "object"
	case reflect.Interface:
		return "any"
	default:
		return t.Kind().String()
	}
}
