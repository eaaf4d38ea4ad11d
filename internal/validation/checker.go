package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate accepts the date layouts content files use.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, f := range dateFormats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// checker walks an untyped JSON tree and records the first problem per path.
type checker struct {
	errs map[string]string
}

func newChecker() *checker {
	return &checker{errs: make(map[string]string)}
}

func (c *checker) fail(path, msg string) {
	if path == "" {
		path = RootPath
	}
	if _, ok := c.errs[path]; !ok {
		c.errs[path] = msg
	}
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.errs}
}

func field(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func index(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

func (c *checker) object(raw any, path string) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		c.fail(path, fmt.Sprintf("expected object, got %s", typeName(raw)))
		return nil
	}
	return obj
}

func (c *checker) requiredString(obj map[string]any, prefix, key string) string {
	path := field(prefix, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "is required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(path, fmt.Sprintf("expected string, got %s", typeName(v)))
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		c.fail(path, "must not be empty")
	}
	return s
}

func (c *checker) optionalString(obj map[string]any, prefix, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(field(prefix, key), fmt.Sprintf("expected string, got %s", typeName(v)))
		return ""
	}
	return strings.TrimSpace(s)
}

func (c *checker) email(obj map[string]any, prefix, key string) string {
	s := c.requiredString(obj, prefix, key)
	if s != "" && !ValidEmail(s) {
		c.fail(field(prefix, key), "invalid email address")
	}
	return s
}

// enum validates a value against allowed. A missing value takes fallback, or
// is an error when fallback is empty.
func (c *checker) enum(obj map[string]any, prefix, key string, allowed []string, fallback string) string {
	path := field(prefix, key)
	v, ok := obj[key]
	if !ok || v == nil {
		if fallback == "" {
			c.fail(path, "is required")
		}
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		c.fail(path, fmt.Sprintf("expected string, got %s", typeName(v)))
		return ""
	}
	if !slices.Contains(allowed, s) {
		c.fail(path, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
		return ""
	}
	return s
}

func (c *checker) positiveInt(obj map[string]any, prefix, key string) int {
	path := field(prefix, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "is required")
		return 0
	}
	n, ok := number(v)
	if !ok {
		c.fail(path, fmt.Sprintf("expected number, got %s", typeName(v)))
		return 0
	}
	if n != math.Trunc(n) || n <= 0 {
		c.fail(path, "must be a positive integer")
		return 0
	}
	return int(n)
}

func (c *checker) nonNegative(obj map[string]any, prefix, key string) float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	n, ok := number(v)
	if !ok {
		c.fail(field(prefix, key), fmt.Sprintf("expected number, got %s", typeName(v)))
		return 0
	}
	if n < 0 {
		c.fail(field(prefix, key), "must not be negative")
		return 0
	}
	return n
}

func (c *checker) boolean(obj map[string]any, prefix, key string) bool {
	v, ok := obj[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(field(prefix, key), fmt.Sprintf("expected boolean, got %s", typeName(v)))
	}
	return b
}

func (c *checker) date(obj map[string]any, prefix, key string) time.Time {
	path := field(prefix, key)
	v, ok := obj[key]
	if !ok || v == nil {
		c.fail(path, "is required")
		return time.Time{}
	}
	return c.toDate(v, path)
}

func (c *checker) optionalDate(obj map[string]any, prefix, key string) *time.Time {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil
	}
	ts := c.toDate(v, field(prefix, key))
	if ts.IsZero() {
		return nil
	}
	return &ts
}

func (c *checker) toDate(v any, path string) time.Time {
	switch t := v.(type) {
	case time.Time:
		// YAML frontmatter decodes unquoted timestamps directly.
		return t
	case string:
		ts, err := ParseDate(t)
		if err != nil {
			c.fail(path, "invalid date")
			return time.Time{}
		}
		return ts
	default:
		c.fail(path, fmt.Sprintf("expected date string, got %s", typeName(v)))
		return time.Time{}
	}
}

// stringList reads a list of strings; a missing list is empty. Blank entries are dropped.
func (c *checker) stringList(obj map[string]any, prefix, key string, nonEmpty bool) []string {
	path := field(prefix, key)
	out := []string{}
	v, ok := obj[key]
	if !ok || v == nil {
		if nonEmpty {
			c.fail(path, "is required")
		}
		return out
	}
	items, ok := v.([]any)
	if !ok {
		c.fail(path, fmt.Sprintf("expected array, got %s", typeName(v)))
		return out
	}
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			c.fail(index(path, i), fmt.Sprintf("expected string, got %s", typeName(item)))
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if nonEmpty && len(out) == 0 {
		c.fail(path, "must contain at least one entry")
	}
	return out
}

func (c *checker) array(obj map[string]any, prefix, key string) []any {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		c.fail(field(prefix, key), fmt.Sprintf("expected array, got %s", typeName(v)))
		return nil
	}
	return items
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
