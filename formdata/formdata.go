// Package formdata converts entities to and from the flattened form payload the
// dashboard posts: one string per field, nested values JSON-encoded, the id in
// "_id" or "id".
package formdata

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var ErrNotStructPointer = errors.New("formdata: target must be a non-nil pointer to struct")

// Values is a flattened payload. Only the first value of a repeated key is used.
type Values map[string]string

func (v Values) Get(key string) string { return v[key] }

// ID returns the identifier, preferring "_id".
func (v Values) ID() string {
	if id := strings.TrimSpace(v["_id"]); id != "" {
		return id
	}
	return strings.TrimSpace(v["id"])
}

// Action returns the lower-cased "action" field.
func (v Values) Action() string {
	return strings.ToLower(strings.TrimSpace(v["action"]))
}

// Decode fills dst from v using dst's json tag names. String fields take the
// raw value; every other field is JSON-decoded. Empty values leave the field
// untouched. A json tag of "_id" also accepts "id".
func Decode(v Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return decodeStruct(v, rv.Elem())
}

func decodeStruct(v Values, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		fv := rv.Field(i)

		if f.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			if err := decodeStruct(v, fv); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = f.Name
		}

		raw, ok := v[name]
		if !ok && name == "_id" {
			raw, ok = v["id"]
		}
		if !ok || raw == "" {
			continue
		}
		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func setField(fv reflect.Value, raw string) error {
	if fv.Kind() == reflect.String {
		fv.SetString(raw)
		return nil
	}
	if fv.Kind() == reflect.Bool {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			if strings.EqualFold(strings.TrimSpace(raw), "on") {
				b = true
			} else {
				return err
			}
		}
		fv.SetBool(b)
		return nil
	}

	target := fv.Addr().Interface()
	err := json.Unmarshal([]byte(raw), target)
	if err == nil {
		return nil
	}
	// timestamps and other text types arrive unquoted
	if fv.Addr().Type().Implements(textUnmarshaler) || fv.Type().Implements(textUnmarshaler) || fv.Kind() == reflect.Struct {
		if qerr := json.Unmarshal([]byte(strconv.Quote(raw)), target); qerr == nil {
			return nil
		}
	}
	return err
}

// Encode flattens src the same way Decode reads it.
func Encode(src any) (Values, error) {
	rv := reflect.ValueOf(src)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNotStructPointer
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, ErrNotStructPointer
	}
	out := Values{}
	if err := encodeStruct(rv, out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeStruct(rv reflect.Value, out Values) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if f.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			if err := encodeStruct(fv, out); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = f.Name
		}
		switch fv.Kind() {
		case reflect.String:
			out[name] = fv.String()
		case reflect.Bool:
			out[name] = strconv.FormatBool(fv.Bool())
		default:
			b, err := json.Marshal(fv.Interface())
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			s := string(b)
			// keep scalars such as timestamps unquoted
			if len(s) >= 2 && s[0] == '"' {
				if unq, err := strconv.Unquote(s); err == nil {
					s = unq
				}
			}
			out[name] = s
		}
	}
	return nil
}

func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}
