//go:build sonic

package json

import "github.com/bytedance/sonic"

// Implementation is a constant string that represents the current JSON implementation package
const Implementation = "github.com/bytedance/sonic"

var (
	// Marshal is a drop-in replacement for encoding/json.Marshal
	Marshal = sonic.ConfigStd.Marshal
	// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
	Unmarshal = sonic.ConfigStd.Unmarshal
	// NewEncoder is a drop-in replacement for encoding/json.NewEncoder
	NewEncoder = sonic.ConfigStd.NewEncoder
	// NewDecoder is a drop-in replacement for encoding/json.NewDecoder
	NewDecoder = sonic.ConfigStd.NewDecoder
	// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
	MarshalIndent = sonic.ConfigStd.MarshalIndent
	// Valid is a drop-in replacement for encoding/json.Valid
	Valid = sonic.ConfigStd.Valid
)
