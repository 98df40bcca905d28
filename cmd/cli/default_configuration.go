package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationDocument []byte

// EmbeddedDefaultConfiguration returns a copy of the baked-in manahg defaults
// together with the configuration type identifier the loader expects.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	documentCopy := make([]byte, len(embeddedDefaultConfigurationDocument))
	copy(documentCopy, embeddedDefaultConfigurationDocument)
	return documentCopy, configurationTypeConstant
}
