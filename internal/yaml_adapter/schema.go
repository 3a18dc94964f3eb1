package yaml_adapter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type document struct {
	Settings      *settingsDoc `yaml:"settings"`
	Organisations yaml.Node    `yaml:"organisations"`
	Persons       *personsDoc  `yaml:"persons"`
}

type settingsDoc struct {
	EnablePNG     *bool   `yaml:"enable_png"`
	EnableLibrary *bool   `yaml:"enable_library"`
	OutputDir     *string `yaml:"output_dir"`
	IconsDir      *string `yaml:"icons_dir"`
}

type iconDoc struct {
	Template  string    `yaml:"template"`
	Group     string    `yaml:"group"`
	Names     listField `yaml:"names"`
	Special   listField `yaml:"special"`
	Directory string    `yaml:"directory"`
	Location  string    `yaml:"location"`
}

type personsDoc struct {
	Enabled *bool        `yaml:"enabled"`
	Entries []*personDoc `yaml:"entries"`
}

type personDoc struct {
	Label        listField `yaml:"label"`
	Organisation string    `yaml:"organisation"`
	Group        string    `yaml:"group"`
	Template     string    `yaml:"template"`
	Value        listField `yaml:"value"`
	Location     string    `yaml:"location"`
}

// listField holds a list attribute in its comma separated form. It accepts a
// scalar or a sequence of scalars.
type listField string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *listField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = ""
			return nil
		}
		*l = listField(value.Value)
		return nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list elements must be scalars", item.Line)
			}
			if strings.Contains(item.Value, ",") {
				return fmt.Errorf("line %d: list element %q must not contain a comma", item.Line, item.Value)
			}
			parts = append(parts, item.Value)
		}
		*l = listField(strings.Join(parts, ","))
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
}
