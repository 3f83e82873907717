//go:build !sonic

package json

import "encoding/json"

// Implementation is a constant string that represents the current JSON implementation package
const Implementation = "encoding/json"

var (
	// Marshal is a drop-in replacement for encoding/json.Marshal
	Marshal = json.Marshal
	// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
	Unmarshal = json.Unmarshal
	// NewEncoder is a drop-in replacement for encoding/json.NewEncoder
	NewEncoder = json.NewEncoder
	// NewDecoder is a drop-in replacement for encoding/json.NewDecoder
	NewDecoder = json.NewDecoder
	// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
	MarshalIndent = json.MarshalIndent
	// Valid is a drop-in replacement for encoding/json.Valid
	Valid = json.Valid
)
