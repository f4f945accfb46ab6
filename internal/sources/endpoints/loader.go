package endpoints

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader reads the endpoint overrides file.
type Loader struct {
	filePath string
	lookup   func(string) string
}

// NewLoader creates a loader that expands {{VAR}} placeholders from the
// process environment.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.Getenv,
	}
}

// Load reads and parses the overrides file.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint file: %w", err)
	}

	data = expandTemplateVariables(data, l.lookup)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse endpoint yaml: %w", err)
	}

	file := &File{Endpoints: map[string]string{}}
	if len(doc.Content) == 0 {
		return file, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse endpoint yaml: line %d: expected a mapping", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "endpoints" {
			continue
		}
		if err := file.addEntries(root.Content[i+1]); err != nil {
			return nil, fmt.Errorf("failed to parse endpoint yaml: %w", err)
		}
	}

	return file, nil
}

// addEntries walks the endpoints mapping pair by pair. yaml.v3 rejects
// repeated keys when decoding into a map; here the later entry wins and the
// key is recorded in Replaced.
func (f *File) addEntries(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("line %d: endpoints must be a mapping", node.Line)
	default:
		return fmt.Errorf("line %d: endpoints must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var path string
		if err := valueNode.Decode(&path); err != nil {
			return fmt.Errorf("line %d: endpoint %q: %w", valueNode.Line, keyNode.Value, err)
		}
		if _, seen := f.Endpoints[keyNode.Value]; seen {
			f.Replaced = append(f.Replaced, keyNode.Value)
		}
		f.Endpoints[keyNode.Value] = path
	}
	return nil
}

var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// expandTemplateVariables replaces {{NAME}} with the value of NAME.
// Example: "{{REPORTS_HOST}}/v2/" -> "https://reports.internal/v2/"
func expandTemplateVariables(data []byte, lookup func(string) string) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(lookup(string(name)))
	})
}
