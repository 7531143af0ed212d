// Package manifest loads tool definitions from YAML manifest files into
// a quest.Registry. YAML is a superset of JSON, so JSON manifests load
// unchanged.
package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/mwielosz/quest"
)

// toolDoc is the manifest wire format for a single tool record.
type toolDoc struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	InvocationPath string   `yaml:"invocation_path"`
	Arguments      []argDoc `yaml:"arguments"`
}

type argDoc struct {
	Name        string `yaml:"name"`
	Option      string `yaml:"option"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// Parse decodes a manifest document: an ordered sequence of tool
// records. Missing name, description, or invocation_path fails with
// quest.ErrConfig; an absent arguments list defaults to empty.
func Parse(data []byte) ([]quest.Tool, error) {
	var docs []toolDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse manifest: %w: %w", quest.ErrConfig, err)
	}

	tools := make([]quest.Tool, 0, len(docs))
	for i, doc := range docs {
		tool := quest.Tool{
			Name:           doc.Name,
			Description:    doc.Description,
			InvocationPath: doc.InvocationPath,
		}
		for _, arg := range doc.Arguments {
			tool.Arguments = append(tool.Arguments, quest.ToolArgument{
				Name:        arg.Name,
				Option:      arg.Option,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		if err := tool.Validate(); err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

// Load reads a single manifest file and builds a registry from it.
func Load(path string) (*quest.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w: %w", quest.ErrConfig, err)
	}
	tools, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return quest.NewRegistry(tools), nil
}

// LoadGlob discovers manifest files matching a doublestar pattern
// (e.g. "tools/**/*.yaml") and builds a single registry from all of
// them. Files are read in lexical path order; a duplicate tool name in
// a later file replaces the earlier definition. Matching no files is a
// configuration error.
func LoadGlob(pattern string) (*quest.Registry, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("manifest pattern %q: %w: %w", pattern, quest.ErrConfig, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("manifest pattern %q matched no files: %w", pattern, quest.ErrConfig)
	}
	sort.Strings(paths)

	var tools []quest.Tool
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w: %w", quest.ErrConfig, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tools = append(tools, parsed...)
	}
	return quest.NewRegistry(tools), nil
}
