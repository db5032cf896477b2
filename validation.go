package jwtlite

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// isMissingPayload treats nil, typed nils, the empty string and an empty or null raw
// message as an absent payload. Empty objects, zero and false are real values.
func isMissingPayload(payload any) bool {
	switch p := payload.(type) {
	case nil:
		return true
	case string:
		return p == ""
	case json.RawMessage:
		trimmed := bytes.TrimSpace(p)
		return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
	}

	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}
