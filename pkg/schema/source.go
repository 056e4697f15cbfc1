package schema

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

// StaticSource serves field metadata held in memory. Modules it has no
// entry for describe as empty.
type StaticSource map[string][]models.FieldDescriptor

func (s StaticSource) Describe(_ context.Context, module string) ([]models.FieldDescriptor, error) {
	return s[module], nil
}

// fieldsFile is the layout of a field metadata file:
//
//	modules:
//	  Contacts:
//	    - name: Last Name
//	      type: text
//	    - name: Date of Birth
//	      type: date
type fieldsFile struct {
	Modules map[string][]models.FieldDescriptor `yaml:"modules"`
}

// LoadFile reads a YAML field metadata file into a StaticSource. Type names
// may be either the short forms or the service's own labels.
func LoadFile(path string) (StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML field metadata.
func ParseFile(data []byte) (StaticSource, error) {
	var f fieldsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fields file: %w", err)
	}
	src := make(StaticSource, len(f.Modules))
	for module, fields := range f.Modules {
		for i := range fields {
			fields[i].Type = models.ParseFieldType(string(fields[i].Type))
		}
		src[module] = fields
	}
	return src, nil
}
