package cli

import (
	"bytes"
	_ "embed"
)

// defaultConfigurationDocument seeds every key the commands read so that environment
// overrides resolve even when no configuration file is installed.
//
//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded defaults and their format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationDocument), configurationTypeConstant
}
