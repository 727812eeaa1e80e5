package conf

// Package conf reads run configuration: line-list files naming documents,
// and the YAML file that sets sanitizer, converter and section options.

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"nxtud/nlp/convert"
	"nxtud/nlp/format/nxt"
	"nxtud/nlp/sanitize"

	"gopkg.in/yaml.v2"
)

// Conf is a line-list file, one value per line, # starts a comment line
type Conf struct {
	Values []string
}

func Read(reader io.Reader) (*Conf, error) {
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	retval := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	return &Conf{retval}, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Section is a named set of conversations, either an inclusive range of
// conversation numbers or the documents listed in a line-list file
type Section struct {
	Name string `yaml:"name"`
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
	List string `yaml:"list"`
}

// Select returns the documents of docs that belong to the section, in the
// order of docs
func (s Section) Select(docs []string) ([]string, error) {
	var listed map[string]bool
	if len(s.List) > 0 {
		list, err := ReadFile(s.List)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}
		listed = make(map[string]bool, len(list.Values))
		for _, doc := range list.Values {
			if !strings.HasPrefix(doc, nxt.DOC_PREFIX) {
				doc = nxt.DOC_PREFIX + doc
			}
			listed[doc] = true
		}
	}
	selected := make([]string, 0, len(docs))
	for _, doc := range docs {
		if listed != nil {
			if listed[doc] {
				selected = append(selected, doc)
			}
			continue
		}
		num, err := nxt.DocNumber(doc)
		if err != nil {
			return nil, fmt.Errorf("section %s: document %s: %w", s.Name, doc, err)
		}
		if num >= s.From && num <= s.To {
			selected = append(selected, doc)
		}
	}
	return selected, nil
}

var DEFAULT_SECTIONS = []Section{
	{Name: "train", From: 2000, To: 3999},
	{Name: "dev", From: 4000, To: 4153},
	{Name: "dev2", From: 4154, To: 4483},
	{Name: "test", From: 4500, To: 4936},
}

// DEFAULT_RUN are the sections converted when none are requested
var DEFAULT_RUN = []string{"train", "dev", "test"}

type Config struct {
	Sanitize  sanitize.Options `yaml:"sanitize"`
	Strip     []string         `yaml:"strip"`
	Converter convert.Stanford `yaml:"converter"`
	Sections  []Section        `yaml:"sections"`
}

func Default() *Config {
	sections := make([]Section, len(DEFAULT_SECTIONS))
	copy(sections, DEFAULT_SECTIONS)
	return &Config{
		Sanitize:  sanitize.DefaultOptions(),
		Converter: *convert.NewStanford(),
		Sections:  sections,
	}
}

// Parse overlays YAML data on the defaults. Names under strip enable the
// corresponding sanitizer options.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	for _, name := range c.Strip {
		if err := c.Sanitize.Enable(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func LoadFile(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// Section looks up a section by name
func (c *Config) Section(name string) (Section, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Run resolves section names in the order given
func (c *Config) Run(names []string) ([]Section, error) {
	if len(names) == 0 {
		names = DEFAULT_RUN
	}
	run := make([]Section, 0, len(names))
	for _, name := range names {
		s, exists := c.Section(name)
		if !exists {
			return nil, fmt.Errorf("unknown section %q", name)
		}
		run = append(run, s)
	}
	return run, nil
}

// YAML renders the effective configuration
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
