package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// TOML implements koanf.Parser on top of BurntSushi/toml.
type TOML struct{}

// TOMLParser returns a koanf parser for TOML config files.
func TOMLParser() *TOML {
	return &TOML{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOML) Marshal(o map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, fmt.Errorf("encoding toml: %w", err)
	}
	return buf.Bytes(), nil
}
