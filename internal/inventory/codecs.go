package inventory

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/wardrobe/internal/domain"
)

// TypeCodec translates between a host item-type enumeration and its stored form.
type TypeCodec[T comparable] interface {
	ParseType(raw string) (T, error)
	FormatType(t T) string
}

// PriceCodec serializes a host price value.
type PriceCodec[P any] interface {
	EncodePrice(p P) (string, error)
	DecodePrice(raw string) (P, error)
}

// StringTypes is a closed enumeration of string-backed item types.
// Parsing is case-insensitive and ignores surrounding whitespace.
type StringTypes[T ~string] struct {
	values []T
	byKey  map[string]T
}

// NewStringTypes builds a codec accepting exactly the given values.
func NewStringTypes[T ~string](values ...T) *StringTypes[T] {
	c := &StringTypes[T]{
		values: make([]T, 0, len(values)),
		byKey:  make(map[string]T, len(values)),
	}
	for _, v := range values {
		key := foldKey(string(v))
		if _, dup := c.byKey[key]; dup {
			continue
		}
		c.byKey[key] = v
		c.values = append(c.values, v)
	}
	return c
}

// ParseType returns the member matching raw or ErrUnknownItemType.
func (c *StringTypes[T]) ParseType(raw string) (T, error) {
	if v, ok := c.byKey[foldKey(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", domain.ErrUnknownItemType, raw)
}

// FormatType returns the stored form of t.
func (c *StringTypes[T]) FormatType(t T) string {
	return string(t)
}

// Values returns the members in declaration order.
func (c *StringTypes[T]) Values() []T {
	return append([]T(nil), c.values...)
}

// Casers are stateful, so each call gets its own.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// JSONPrice stores prices as JSON documents.
type JSONPrice[P any] struct{}

// EncodePrice marshals p to JSON.
func (JSONPrice[P]) EncodePrice(p P) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidPrice, err)
	}
	return string(b), nil
}

// DecodePrice unmarshals raw into a P.
func (JSONPrice[P]) DecodePrice(raw string) (P, error) {
	var p P
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		var zero P
		return zero, fmt.Errorf("%w: %w", domain.ErrInvalidPrice, err)
	}
	return p, nil
}
