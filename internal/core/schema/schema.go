// Package schema validates backend responses against the shape each
// operation declares, before anything is decoded into domain types.
package schema

import (
	"bytes"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// Kind is the JSON type a response value must have.
type Kind int

const (
	// Any accepts every value, including an empty body.
	Any Kind = iota
	Object
	Array
	// ObjectOrArray accepts an object or a non-empty array of objects, in
	// which case the first element is used.
	ObjectOrArray
)

// Schema declares the expected shape of a response.
type Schema struct {
	// Path selects the value to check with gjson syntax. Empty means the
	// whole body.
	Path string
	Kind Kind
	// Required lists fields every checked object must have. For arrays it
	// applies to each element.
	Required []string
}

// Extract checks body and returns the raw JSON of the selected value.
func (s Schema) Extract(operation string, body []byte) ([]byte, error) {
	if s.Kind == Any && s.Path == "" && len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, &domain.SchemaError{Operation: operation, Reason: "body is not valid JSON"}
	}

	res := gjson.ParseBytes(body)
	if s.Path != "" {
		res = res.Get(s.Path)
		if !res.Exists() {
			return nil, &domain.SchemaError{Operation: operation, Path: s.Path, Reason: "field is missing"}
		}
	}

	switch s.Kind {
	case Object:
		if err := s.checkObject(operation, s.Path, res); err != nil {
			return nil, err
		}
	case Array:
		if !res.IsArray() {
			return nil, &domain.SchemaError{Operation: operation, Path: s.Path, Reason: "expected an array"}
		}
		if len(s.Required) > 0 {
			for i, el := range res.Array() {
				if err := s.checkObject(operation, join(s.Path, strconv.Itoa(i)), el); err != nil {
					return nil, err
				}
			}
		}
	case ObjectOrArray:
		path := s.Path
		if res.IsArray() {
			elems := res.Array()
			if len(elems) == 0 {
				return nil, &domain.SchemaError{Operation: operation, Path: s.Path, Reason: "expected a non-empty array"}
			}
			res = elems[0]
			path = join(path, "0")
		}
		if err := s.checkObject(operation, path, res); err != nil {
			return nil, err
		}
	}
	return []byte(res.Raw), nil
}

func (s Schema) checkObject(operation, path string, v gjson.Result) error {
	if !v.IsObject() {
		return &domain.SchemaError{Operation: operation, Path: path, Reason: "expected an object"}
	}
	for _, field := range s.Required {
		if !v.Get(gjson.Escape(field)).Exists() {
			return &domain.SchemaError{Operation: operation, Path: join(path, field), Reason: "field is missing"}
		}
	}
	return nil
}

func join(path, seg string) string {
	if path == "" {
		return seg
	}
	return path + "." + seg
}

var messageFields = []string{"error", "detail", "message", "non_field_errors"}

// ServerMessage returns the human readable error the backend put in an error
// body, or an empty string. Both {"detail": "..."} and {"detail": ["..."]}
// forms are understood.
func ServerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	res := gjson.ParseBytes(body)
	if res.Type == gjson.String {
		return res.String()
	}
	for _, f := range messageFields {
		v := res.Get(f)
		switch {
		case v.Type == gjson.String && v.String() != "":
			return v.String()
		case v.IsArray():
			if first := v.Get("0"); first.Type == gjson.String {
				return first.String()
			}
		}
	}
	return ""
}
