package entity

import (
	"errors"
	"net/url"
	"strconv"
)

const DefaultKeySuffix = "_hasRead"

var (
	ErrNameRequired    = errors.New("name is required")
	ErrValueRequired   = errors.New("value is required")
	ErrValueNotBoolean = errors.New("value must be a boolean")
)

type FlagName string

// FlagKey builds the store key for a flag, e.g. "alice_hasRead".
func FlagKey(name FlagName, suffix string) string {
	return string(name) + suffix
}

type GetReadRequest struct {
	Name FlagName
}

type SetReadRequest struct {
	Name  FlagName
	Value string
}

func ParseGetReadRequest(query url.Values) (*GetReadRequest, error) {
	name := query.Get("name")
	if name == "" {
		return nil, ErrNameRequired
	}

	return &GetReadRequest{Name: FlagName(name)}, nil
}

// ParseSetReadRequest keeps the value as received unless strict is set,
// in which case it has to be a boolean and is normalized to "true" or "false".
func ParseSetReadRequest(query url.Values, strict bool) (*SetReadRequest, error) {
	name := query.Get("name")
	if name == "" {
		return nil, ErrNameRequired
	}

	if !query.Has("value") {
		return nil, ErrValueRequired
	}

	value := query.Get("value")
	if strict {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, ErrValueNotBoolean
		}
		value = strconv.FormatBool(b)
	}

	return &SetReadRequest{Name: FlagName(name), Value: value}, nil
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrValueRequired) ||
		errors.Is(err, ErrValueNotBoolean)
}
