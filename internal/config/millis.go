package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Millis is a duration in milliseconds. In config files it also accepts
// false, meaning zero.
type Millis int64

// Duration converts m to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// UnmarshalTOML implements toml.Unmarshaler.
func (m *Millis) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*m = Millis(x)
	case float64:
		*m = Millis(x)
	case bool:
		if x {
			return fmt.Errorf("expires: true is not a duration")
		}
		*m = 0
	default:
		return fmt.Errorf("expires: unsupported value %v", v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Millis) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if node.Tag == "!!bool" {
		if err := node.Decode(&b); err != nil {
			return err
		}
		if b {
			return fmt.Errorf("expires: true is not a duration")
		}
		*m = 0
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("expires: %w", err)
	}
	*m = Millis(n)
	return nil
}
