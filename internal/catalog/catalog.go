// Package catalog is the read-only reference of nircmd commands, grouped by
// category, used for lookup, search and argument checks.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed commands.yaml
var builtin []byte

// ParamType is the kind of value a command parameter accepts.
type ParamType string

const (
	ParamNone       ParamType = "none"
	ParamString     ParamType = "string"
	ParamInteger    ParamType = "integer"
	ParamFilePath   ParamType = "filepath"
	ParamFolderPath ParamType = "folderpath"
	ParamChoice     ParamType = "choice"
	ParamBoolean    ParamType = "boolean"
	ParamKeyCombo   ParamType = "keycombo"
	ParamColor      ParamType = "color"
	ParamRectangle  ParamType = "rectangle"
)

func (t ParamType) valid() bool {
	switch t {
	case ParamNone, ParamString, ParamInteger, ParamFilePath, ParamFolderPath,
		ParamChoice, ParamBoolean, ParamKeyCombo, ParamColor, ParamRectangle:
		return true
	}
	return false
}

// Parameter describes one positional argument of a command.
type Parameter struct {
	Name        string    `yaml:"name"              json:"name"`
	Description string    `yaml:"description"       json:"description"`
	Type        ParamType `yaml:"type"              json:"type"`
	Required    bool      `yaml:"required"          json:"required"`
	Default     string    `yaml:"default,omitempty" json:"default,omitempty"`
	Choices     []string  `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// Command is one nircmd command line form.
type Command struct {
	Name        string      `yaml:"name"                 json:"name"`
	Description string      `yaml:"description"          json:"description"`
	Example     string      `yaml:"example"              json:"example"`
	Parameters  []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Category    string      `yaml:"category"             json:"category"`
}

// Category groups related commands.
type Category struct {
	Name        string    `yaml:"name"        json:"name"`
	Description string    `yaml:"description" json:"description"`
	Commands    []Command `yaml:"commands"    json:"commands"`
}

// Catalog is an immutable command reference. Build it once and share it.
type Catalog struct {
	categories []Category
	byName     map[string]*Command
}

// rawParameter defaults Required to true when the document omits it.
type rawParameter struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Type        ParamType `yaml:"type"`
	Required    *bool     `yaml:"required"`
	Default     string    `yaml:"default"`
	Choices     []string  `yaml:"choices"`
}

type rawDocument struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Commands    []struct {
			Name        string         `yaml:"name"`
			Description string         `yaml:"description"`
			Example     string         `yaml:"example"`
			Parameters  []rawParameter `yaml:"parameters"`
		} `yaml:"commands"`
	} `yaml:"categories"`
}

// Builtin returns the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtin)
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byName: make(map[string]*Command)}
	seen := make(map[string]bool)
	for _, rc := range doc.Categories {
		cat := Category{Name: rc.Name, Description: rc.Description}
		for _, rcmd := range rc.Commands {
			cmd := Command{
				Name:        rcmd.Name,
				Description: rcmd.Description,
				Example:     rcmd.Example,
				Category:    rc.Name,
			}
			for _, rp := range rcmd.Parameters {
				if rp.Type == "" {
					rp.Type = ParamString
				}
				if !rp.Type.valid() {
					return nil, fmt.Errorf("command %q parameter %q: unknown type %q", rcmd.Name, rp.Name, rp.Type)
				}
				cmd.Parameters = append(cmd.Parameters, Parameter{
					Name:        rp.Name,
					Description: rp.Description,
					Type:        rp.Type,
					Required:    rp.Required == nil || *rp.Required,
					Default:     rp.Default,
					Choices:     rp.Choices,
				})
			}
			if seen[cmd.Name] {
				return nil, fmt.Errorf("duplicate command %q", cmd.Name)
			}
			seen[cmd.Name] = true
			cat.Commands = append(cat.Commands, cmd)
		}
		c.categories = append(c.categories, cat)
	}

	for i := range c.categories {
		for j := range c.categories[i].Commands {
			cmd := &c.categories[i].Commands[j]
			c.byName[cmd.Name] = cmd
		}
	}
	return c, nil
}

// Categories returns all categories in document order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category returns a category by exact name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Find returns a command by exact name, e.g. "win hide".
func (c *Catalog) Find(name string) (Command, bool) {
	cmd, ok := c.byName[name]
	if !ok {
		return Command{}, false
	}
	return *cmd, true
}

// Search returns commands whose name or description contains query,
// case-insensitively, in catalog order.
func (c *Catalog) Search(query string) []Command {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []Command{}
	if q == "" {
		return results
	}
	for _, cat := range c.categories {
		for _, cmd := range cat.Commands {
			if strings.Contains(strings.ToLower(cmd.Name), q) ||
				strings.Contains(strings.ToLower(cmd.Description), q) {
				results = append(results, cmd)
			}
		}
	}
	return results
}

// Len returns the number of commands.
func (c *Catalog) Len() int { return len(c.byName) }

// Resolve finds the longest catalog command that prefixes args and returns
// it with the remaining arguments. "win hide title x" resolves to
// "win hide" with ["title", "x"].
func (c *Catalog) Resolve(args []string) (Command, []string, bool) {
	for n := len(args); n > 0; n-- {
		if cmd, ok := c.byName[strings.Join(args[:n], " ")]; ok {
			return *cmd, args[n:], true
		}
	}
	return Command{}, nil, false
}

// Validate checks args against the command's required count and choice lists.
func (cmd Command) Validate(args []string) error {
	required := 0
	for _, p := range cmd.Parameters {
		if p.Required {
			required++
		}
	}
	if len(args) < required {
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", cmd.Name, required, len(args))
	}
	for i, p := range cmd.Parameters {
		if i >= len(args) || p.Type != ParamChoice || len(p.Choices) == 0 {
			continue
		}
		if !containsFold(p.Choices, args[i]) {
			return fmt.Errorf("%s: %s must be one of %s, got %q", cmd.Name, p.Name, strings.Join(p.Choices, ", "), args[i])
		}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
