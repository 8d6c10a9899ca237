package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const sampleHeader = `# wedsite configuration
#
# Search order (highest priority first): --config, ./.wedsite.yaml,
# ~/.config/wedsite/config.yaml, /etc/wedsite/config.yaml.
# Every key can be overridden with WEDSITE_<SECTION>_<KEY>, e.g.
# WEDSITE_UI_LANGUAGE=es or WEDSITE_API_EVENTS=ceremony=<id>,brunch=<id>.

`

// SampleConfig renders the defaults as a commented YAML file
func SampleConfig() string {
	var b bytes.Buffer
	b.WriteString(sampleHeader)
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(DefaultConfig()); err != nil {
		// DefaultConfig only holds plain values
		panic(fmt.Sprintf("config: encode defaults: %v", err))
	}
	_ = enc.Close()
	return b.String()
}

// MinimalSampleConfig holds only the settings most kiosks change
func MinimalSampleConfig() string {
	return `# wedsite configuration
version: "1.0"
ui:
  language: en
  theme: default
touch:
  enabled: false
  device: /dev/input/event0
output:
  default_format: text
`
}
