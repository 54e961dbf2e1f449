package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of File, indented.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&File{})
	s.Title = "tokenfield configuration"
	return json.MarshalIndent(s, "", "  ")
}
