package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var ErrKnownKey = errors.New("key is a modelled field")

// ExtensibleObject holds the JSON members of an object that its Go type does not model.
// Types embed it with a `json:"-"` tag and route their (Un)MarshalJSON through
// UnmarshalExtensible and MarshalExtensible.
type ExtensibleObject struct {
	known mapset.Set[string]
	extra map[string]json.RawMessage
}

// NewExtensibleObject prepares an empty remainder for the type of model.
func NewExtensibleObject(model any) ExtensibleObject {
	return ExtensibleObject{known: knownKeys(reflect.TypeOf(model))}
}

// Get decodes the remainder member key into v. The boolean is false when key is absent.
func (object *ExtensibleObject) Get(key string, v any) (bool, error) {
	raw, ok := object.extra[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("extension %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key. Keys that belong to the modelled fields are rejected.
func (object *ExtensibleObject) Set(key string, v any) error {
	if object.known != nil && object.known.Contains(strings.ToLower(key)) {
		return fmt.Errorf("%w: %s", ErrKnownKey, key)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("extension %s: %w", key, err)
	}
	if object.extra == nil {
		object.extra = map[string]json.RawMessage{}
	}
	object.extra[key] = raw
	return nil
}

func (object *ExtensibleObject) Delete(key string) {
	delete(object.extra, key)
}

func (object *ExtensibleObject) Has(key string) bool {
	_, ok := object.extra[key]
	return ok
}

// Keys returns the remainder keys in sorted order.
func (object *ExtensibleObject) Keys() []string {
	keys := make([]string, 0, len(object.extra))
	for key := range object.extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalExtensible decodes data into model (a pointer to a struct without its own
// UnmarshalJSON) and returns the members model has no field for.
func UnmarshalExtensible(data []byte, model any) (ExtensibleObject, error) {
	if err := json.Unmarshal(data, model); err != nil {
		return ExtensibleObject{}, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return ExtensibleObject{}, err
	}

	object := NewExtensibleObject(model)
	for key, raw := range members {
		if object.known.Contains(strings.ToLower(key)) {
			continue
		}
		if object.extra == nil {
			object.extra = map[string]json.RawMessage{}
		}
		object.extra[key] = raw
	}
	return object, nil
}

// MarshalExtensible encodes model and merges the remainder into it. Modelled fields win
// over remainder members with the same name.
func MarshalExtensible(model any, object ExtensibleObject) ([]byte, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}
	if len(object.extra) == 0 {
		return data, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for key, raw := range object.extra {
		if _, exists := members[key]; !exists {
			members[key] = raw
		}
	}
	return json.Marshal(members)
}

// knownKeys lists the lower-cased JSON names of the exported fields of t,
// descending into untagged embedded structs the way encoding/json does.
func knownKeys(t reflect.Type) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSet[string]()
	collectKeys(t, keys)
	return keys
}

func collectKeys(t reflect.Type, keys mapset.Set[string]) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" {
			collectKeys(field.Type, keys)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		keys.Add(strings.ToLower(name))
	}
}
