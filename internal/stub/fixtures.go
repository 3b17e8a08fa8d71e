package stub

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of STUB_RESPONSES_FILE.
//
//	responses:
//	  - "Thanks for getting in touch!"
//	fixtures:
//	  - match: balance
//	    status: 200
//	    body: |
//	      {"answer": "Here is your balance", "tables": [...]}
//	prompt:
//	  system: "You are a banking assistant."
//	  temperature: 0.2
//	  max_tokens: 300
type File struct {
	Responses []string   `yaml:"responses"`
	Fixtures  []Fixture  `yaml:"fixtures"`
	Prompt    PromptConfig `yaml:"prompt"`
}

// PromptConfig configures the language model responder.
type PromptConfig struct {
	System      string  `yaml:"system"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type Fixture struct {
	Match  string `yaml:"match"`
	Status int    `yaml:"status"`
	Body   string `yaml:"body"`
}

func LoadFile(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return ParseFile(b)
}

func ParseFile(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse responses file: %w", err)
	}
	for i, fx := range f.Fixtures {
		if strings.TrimSpace(fx.Match) == "" {
			return File{}, fmt.Errorf("fixture %d: match is required", i)
		}
		if !gjson.Valid(fx.Body) {
			return File{}, fmt.Errorf("fixture %d (%q): body is not valid JSON", i, fx.Match)
		}
		if fx.Status == 0 {
			f.Fixtures[i].Status = http.StatusOK
		}
	}
	return f, nil
}

// Fixtures replies with the first fixture whose match string occurs in the
// message text, ignoring case.
type Fixtures struct {
	fixtures []Fixture
}

func NewFixtures(fixtures []Fixture) *Fixtures {
	return &Fixtures{fixtures: fixtures}
}

func (f *Fixtures) Respond(_ context.Context, req Request) (*Response, error) {
	text := strings.ToLower(req.Text)
	for _, fx := range f.fixtures {
		if strings.Contains(text, strings.ToLower(fx.Match)) {
			return &Response{Status: fx.Status, Body: []byte(fx.Body)}, nil
		}
	}
	return nil, nil
}
