package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownEnumValue = errors.New("unknown enum value")

// EnumTable is the serialization mapping of an integer backed enum.
// Lookups by name are case-insensitive; names are written exactly as registered.
type EnumTable[T ~int] struct {
	name     string
	names    map[T]string
	values   map[string]T
	fallback *T
}

func NewEnumTable[T ~int](name string, members map[T]string) *EnumTable[T] {
	table := &EnumTable[T]{
		name:   name,
		names:  make(map[T]string, len(members)),
		values: make(map[string]T, len(members)),
	}
	for value, memberName := range members {
		table.names[value] = memberName
		table.values[strings.ToLower(memberName)] = value
	}
	return table
}

// WithAlias registers an extra accepted spelling for value. Aliases are only used when parsing.
func (table *EnumTable[T]) WithAlias(alias string, value T) *EnumTable[T] {
	table.values[strings.ToLower(alias)] = value
	return table
}

// WithFallback makes Unmarshal decode names and numbers the table does not know as value
// instead of failing. Services add members to state enums without a new API version.
func (table *EnumTable[T]) WithFallback(value T) *EnumTable[T] {
	table.fallback = &value
	return table
}

func (table *EnumTable[T]) Name() string {
	return table.name
}

func (table *EnumTable[T]) String(value T) string {
	if name, ok := table.names[value]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", table.name, int(value))
}

func (table *EnumTable[T]) Parse(name string) (T, error) {
	if value, ok := table.values[strings.ToLower(strings.TrimSpace(name))]; ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q is not a %s", ErrUnknownEnumValue, name, table.name)
}

func (table *EnumTable[T]) IsDefined(value T) bool {
	_, ok := table.names[value]
	return ok
}

// Members returns the registered values in ascending order.
func (table *EnumTable[T]) Members() []T {
	members := make([]T, 0, len(table.names))
	for value := range table.names {
		members = append(members, value)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

func (table *EnumTable[T]) Marshal(value T) ([]byte, error) {
	name, ok := table.names[value]
	if !ok {
		return nil, fmt.Errorf("%w: %d is not a %s", ErrUnknownEnumValue, int(value), table.name)
	}
	return json.Marshal(name)
}

// Unmarshal accepts the string form and, for services that send numbers, the integer form.
func (table *EnumTable[T]) Unmarshal(data []byte, value *T) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var number int
		if numberErr := json.Unmarshal(data, &number); numberErr != nil {
			return fmt.Errorf("%s: %w", table.name, err)
		}
		if !table.IsDefined(T(number)) {
			if table.fallback != nil {
				*value = *table.fallback
				return nil
			}
			return fmt.Errorf("%w: %d is not a %s", ErrUnknownEnumValue, number, table.name)
		}
		*value = T(number)
		return nil
	}

	parsed, err := table.Parse(name)
	if err != nil {
		if table.fallback != nil {
			*value = *table.fallback
			return nil
		}
		return err
	}
	*value = parsed
	return nil
}
