package json

import "encoding/json"

// RawMessage is a raw encoded JSON value
type RawMessage = json.RawMessage

// Number represents a JSON number literal
type Number = json.Number

// Marshaler is implemented by types that can marshal themselves into valid JSON
type Marshaler = json.Marshaler

// Unmarshaler is implemented by types that can unmarshal a JSON description of themselves
type Unmarshaler = json.Unmarshaler

// SyntaxError is a description of a JSON syntax error
type SyntaxError = json.SyntaxError

// UnmarshalTypeError describes a JSON value that was not appropriate for a value of a specific Go type
type UnmarshalTypeError = json.UnmarshalTypeError
