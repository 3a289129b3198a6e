package valid

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"time"
)

// ValidationError reports one failed constraint with the path to the
// offending value.
type ValidationError struct {
	// Path locates the value, e.g. "items[2].name"; empty for the root.
	Path string
	// Message describes the failed constraint.
	Message string
}

// Error returns a human-readable message.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "validation failed: " + e.Message
	}
	return "validation failed at " + e.Path + ": " + e.Message
}

func fail(path, format string, args ...any) error {
	return &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Validate checks value against the schema and returns the first violation
// found, or nil. Values follow decoded-JSON conventions: map[string]any,
// []any, string, numeric types, bool, nil.
func (s *Schema) Validate(value any) error {
	return s.validateAt("", value)
}

func (s *Schema) validateAt(path string, value any) error {
	resolved, err := resolve(s)
	if err != nil {
		return err
	}
	// Presence modifiers apply from the reference site, not the target.
	if value == nil {
		if s.nullable || resolved.nullable || resolved.kind == kindNull || resolved.kind == kindUnknown {
			return nil
		}
		return fail(path, "value must not be null")
	}
	if err := resolved.check(path, value); err != nil {
		return err
	}
	for _, fn := range resolved.refinements {
		if err := fn(value); err != nil {
			return fail(path, "%v", err)
		}
	}
	return nil
}

func (s *Schema) check(path string, value any) error {
	switch s.kind {
	case kindUnknown:
		return nil
	case kindNever:
		return fail(path, "no value is accepted")
	case kindNull:
		return fail(path, "value must be null")
	case kindString:
		return s.checkString(path, value)
	case kindNumber, kindInteger:
		return s.checkNumber(path, value)
	case kindBoolean:
		if _, ok := value.(bool); !ok {
			return fail(path, "expected boolean, got %T", value)
		}
		return nil
	case kindLiteral:
		if !looseEqual(s.literal, value) {
			return fail(path, "expected literal %v", s.literal)
		}
		return nil
	case kindEnum:
		str, ok := value.(string)
		if !ok {
			return fail(path, "expected string, got %T", value)
		}
		for _, v := range s.enumValues {
			if v == str {
				return nil
			}
		}
		return fail(path, "%q is not one of %v", str, s.enumValues)
	case kindArray:
		return s.checkArray(path, value)
	case kindTuple:
		return s.checkTuple(path, value)
	case kindObject, kindRecord:
		return s.checkObject(path, value)
	case kindAnyOf:
		for _, member := range s.members {
			if member.validateAt(path, value) == nil {
				return nil
			}
		}
		return fail(path, "value matches no union member")
	case kindXOr:
		matches := 0
		for _, member := range s.members {
			if member.validateAt(path, value) == nil {
				matches++
			}
		}
		if matches != 1 {
			return fail(path, "value must match exactly one union member, matched %d", matches)
		}
		return nil
	case kindDiscriminated:
		return s.checkDiscriminated(path, value)
	case kindIntersection:
		for _, member := range s.members {
			if err := member.validateAt(path, value); err != nil {
				return err
			}
		}
		return nil
	}
	return fail(path, "unsupported schema construct")
}

func (s *Schema) checkString(path string, value any) error {
	str, ok := value.(string)
	if !ok {
		return fail(path, "expected string, got %T", value)
	}
	n := len([]rune(str))
	if s.length != nil && n != *s.length {
		return fail(path, "length must be exactly %d, got %d", *s.length, n)
	}
	if s.min != nil && float64(n) < *s.min {
		return fail(path, "length must be at least %d, got %d", int(*s.min), n)
	}
	if s.max != nil && float64(n) > *s.max {
		return fail(path, "length must be at most %d, got %d", int(*s.max), n)
	}
	if s.pattern != "" {
		re, err := regexp.Compile(s.pattern)
		if err != nil {
			return fail(path, "invalid pattern %q: %v", s.pattern, err)
		}
		if !re.MatchString(str) {
			return fail(path, "value does not match pattern %q", s.pattern)
		}
	}
	return s.checkFormat(path, str)
}

// checkFormat validates the recognized format names; anything else is an
// annotation, not a constraint.
func (s *Schema) checkFormat(path, str string) error {
	switch s.format {
	case "date-time":
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return fail(path, "value is not an RFC 3339 date-time")
		}
	case "date":
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return fail(path, "value is not a full-date")
		}
	case "uuid":
		if !uuidPattern.MatchString(str) {
			return fail(path, "value is not a UUID")
		}
	case "email":
		if !emailPattern.MatchString(str) {
			return fail(path, "value is not an email address")
		}
	}
	return nil
}

var (
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func (s *Schema) checkNumber(path string, value any) error {
	n, ok := toFloat(value)
	if !ok {
		return fail(path, "expected number, got %T", value)
	}
	if s.kind == kindInteger && n != math.Trunc(n) {
		return fail(path, "expected integer, got %v", n)
	}
	if s.min != nil && n < *s.min {
		return fail(path, "value must be >= %v, got %v", *s.min, n)
	}
	if s.max != nil && n > *s.max {
		return fail(path, "value must be <= %v, got %v", *s.max, n)
	}
	if s.exclusiveMin != nil && n <= *s.exclusiveMin {
		return fail(path, "value must be > %v, got %v", *s.exclusiveMin, n)
	}
	if s.exclusiveMax != nil && n >= *s.exclusiveMax {
		return fail(path, "value must be < %v, got %v", *s.exclusiveMax, n)
	}
	if s.multipleOf != nil && *s.multipleOf != 0 {
		quotient := n / *s.multipleOf
		if math.Abs(quotient-math.Round(quotient)) > 1e-9 {
			return fail(path, "value must be a multiple of %v", *s.multipleOf)
		}
	}
	return nil
}

func (s *Schema) checkArray(path string, value any) error {
	arr, ok := value.([]any)
	if !ok {
		return fail(path, "expected array, got %T", value)
	}
	n := len(arr)
	if s.length != nil && n != *s.length {
		return fail(path, "array length must be exactly %d, got %d", *s.length, n)
	}
	if s.min != nil && float64(n) < *s.min {
		return fail(path, "array must have at least %d items, got %d", int(*s.min), n)
	}
	if s.max != nil && float64(n) > *s.max {
		return fail(path, "array must have at most %d items, got %d", int(*s.max), n)
	}
	if s.uniqueItems {
		seen := make(map[string]bool, n)
		for i, item := range arr {
			key := fmt.Sprintf("%#v", item)
			if seen[key] {
				return fail(fmt.Sprintf("%s[%d]", path, i), "duplicate item")
			}
			seen[key] = true
		}
	}
	if s.item != nil {
		for i, item := range arr {
			if err := s.item.validateAt(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) checkTuple(path string, value any) error {
	arr, ok := value.([]any)
	if !ok {
		return fail(path, "expected array, got %T", value)
	}
	if len(arr) != len(s.tupleItems) {
		return fail(path, "tuple must have exactly %d items, got %d", len(s.tupleItems), len(arr))
	}
	for i, item := range s.tupleItems {
		if err := item.validateAt(fmt.Sprintf("%s[%d]", path, i), arr[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) checkObject(path string, value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fail(path, "expected object, got %T", value)
	}

	if s.min != nil && float64(len(obj)) < *s.min {
		return fail(path, "object must have at least %d properties", int(*s.min))
	}
	if s.max != nil && float64(len(obj)) > *s.max {
		return fail(path, "object must have at most %d properties", int(*s.max))
	}

	if s.kind == kindRecord {
		if s.item != nil {
			for key, val := range obj {
				if err := s.item.validateAt(joinPath(path, key), val); err != nil {
					return err
				}
			}
		}
		return nil
	}

	named := make(map[string]bool, len(s.fields))
	for _, field := range s.fields {
		named[field.Name] = true
		val, present := obj[field.Name]
		if !present {
			fieldSchema, err := resolve(field.Schema)
			if err != nil {
				return err
			}
			if field.Schema.optional || fieldSchema.optional || fieldSchema.hasDefault {
				continue
			}
			return fail(joinPath(path, field.Name), "missing required property")
		}
		if err := field.Schema.validateAt(joinPath(path, field.Name), val); err != nil {
			return err
		}
	}

	switch s.mode {
	case modeStrict:
		for key := range obj {
			if !named[key] {
				return fail(joinPath(path, key), "unknown property not allowed")
			}
		}
	case modeCatchall:
		if s.catchall != nil {
			for key, val := range obj {
				if named[key] {
					continue
				}
				if err := s.catchall.validateAt(joinPath(path, key), val); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Schema) checkDiscriminated(path string, value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fail(path, "expected object, got %T", value)
	}
	tag, present := obj[s.discriminatorKey]
	if !present {
		return fail(joinPath(path, s.discriminatorKey), "missing discriminator property")
	}
	// Literal-tagged members give O(1) dispatch on the tag value.
	var untagged []*Schema
	for _, member := range s.members {
		resolved, err := resolve(member)
		if err != nil {
			return err
		}
		lit, tagged := resolved.discriminatorLiteral(s.discriminatorKey)
		if !tagged {
			untagged = append(untagged, resolved)
			continue
		}
		if looseEqual(lit, tag) {
			return resolved.check(path, value)
		}
	}
	// Members whose discriminator field is not a literal (generated schemas
	// commonly type it as a plain string) dispatch by full validation, first
	// match in declaration order.
	for _, member := range untagged {
		if member.check(path, value) == nil {
			return nil
		}
	}
	return fail(joinPath(path, s.discriminatorKey), "unrecognized discriminator value %v", tag)
}

// discriminatorLiteral returns the literal value of the named field when the
// object schema pins it to one, so the union can dispatch on it directly.
func (s *Schema) discriminatorLiteral(key string) (any, bool) {
	for _, field := range s.fields {
		if field.Name != key {
			continue
		}
		fieldSchema, err := resolve(field.Schema)
		if err != nil {
			return nil, false
		}
		if fieldSchema.kind == kindLiteral {
			return fieldSchema.literal, true
		}
	}
	return nil, false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// looseEqual compares values with numeric widening, so a literal declared as
// int matches a decoded float64.
func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
