package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrEmpty is returned when there is nothing to parse.
var ErrEmpty = errors.New("aisdk: empty content")

// As parses content into a value of type T.
//
// Primitive kinds (string, bool, ints, uints, floats) are converted directly.
// Everything else is decoded as JSON; when strict decoding fails the content is
// stripped of markdown code fences, repaired with jsonrepair and decoded again.
//
// Example:
//
//	type Args struct {
//	    City string `json:"city"`
//	}
//
//	args, err := parse.As[Args](`{city: 'Rome',}`)
func As[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch reflect.TypeFor[T]().Kind() {
	case reflect.String:
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(strings.TrimSpace(content))
		if err != nil {
			return result, fmt.Errorf("parse bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
		if err != nil {
			return result, fmt.Errorf("parse float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("parse int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("parse uint: %w", err)
		}
		target.SetUint(val)
		return result, nil
	}

	if strings.TrimSpace(content) == "" {
		return result, ErrEmpty
	}

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := Repair(content)
	if repairErr != nil {
		return result, fmt.Errorf("unmarshal %T: %w (repair failed: %v)", result, err, repairErr)
	}

	// Reset: a failed Unmarshal may have partially populated result.
	var fresh T
	if err := json.Unmarshal([]byte(repaired), &fresh); err != nil {
		return result, fmt.Errorf("unmarshal repaired %T: %w", result, err)
	}
	return fresh, nil
}

// Repair strips surrounding markdown code fences from content and returns a
// syntactically valid JSON document produced by jsonrepair.
func Repair(content string) (string, error) {
	trimmed := StripCodeFence(content)
	if trimmed == "" {
		return "", ErrEmpty
	}
	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	return repaired, nil
}

// StripCodeFence removes a leading ```lang line and a trailing ``` from
// content. Content without fences is returned trimmed.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		trimmed = trimmed[newline+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// IsJSON reports whether content, after fence stripping, looks like a JSON
// object or array. It is a cheap pre-check, not a validator.
func IsJSON(content string) bool {
	trimmed := StripCodeFence(content)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '{', '[':
		return true
	}
	return false
}
