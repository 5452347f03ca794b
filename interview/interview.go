// Package interview loads the YAML interview configuration file from
// spec §6 and builds the immutable Interview/QuestionBank/flattened-step
// trees the stepper runs against.
package interview

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oes-interview/engine/bank"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/step"
)

// Interview is one entry from the configuration file, fully built:
// its QuestionBank and flattened Steps are computed once at load time
// (spec §6, §4.5, §4.6).
type Interview struct {
	ID      string
	Title   string
	Version string
	Bank    *bank.QuestionBank
	Steps   []step.Step
}

// Config is the full set of loaded interviews, keyed by id. Duplicate
// ids are last-wins with a recorded Warning (spec §9 Open Questions,
// resolved per the source's logged-last-wins behavior).
type Config struct {
	byID     map[string]*Interview
	Warnings []string
}

// Get looks up an interview by id.
func (c *Config) Get(id string) *Interview {
	return c.byID[id]
}

type rawConfig struct {
	Interviews []rawInterview `yaml:"interviews"`
}

type rawInterview struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	Version   string        `yaml:"version"`
	Questions []rawQuestion `yaml:"questions"`
	Steps     []rawStep     `yaml:"steps"`
}

// Load reads and builds every interview defined in the YAML file at
// path. Relative question-file paths resolve against the directory
// containing the file that references them (spec §6).
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read interview config %s: %w", path, err)
	}
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse interview config %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	cfg := &Config{byID: map[string]*Interview{}}

	for _, ri := range raw.Interviews {
		if err := location.ValidateIdentifier(ri.ID); err != nil {
			return nil, fmt.Errorf("interview %q: %w", ri.ID, err)
		}

		questions, err := buildQuestions(ri.Questions, baseDir)
		if err != nil {
			return nil, fmt.Errorf("interview %q: questions: %w", ri.ID, err)
		}
		qb := bank.New(questions, logger)

		rawSteps, err := buildSteps(ri.Steps)
		if err != nil {
			return nil, fmt.Errorf("interview %q: steps: %w", ri.ID, err)
		}
		flat, err := step.Flatten(rawSteps)
		if err != nil {
			return nil, fmt.Errorf("interview %q: flatten steps: %w", ri.ID, err)
		}
		for _, s := range flat {
			if ask, ok := s.(step.Ask); ok {
				if qb.ByID(ask.AskID) == nil {
					return nil, fmt.Errorf("interview %q: question id not found: %q", ri.ID, ask.AskID)
				}
			}
		}

		if _, exists := cfg.byID[ri.ID]; exists {
			msg := fmt.Sprintf("duplicate interview id: %s", ri.ID)
			cfg.Warnings = append(cfg.Warnings, msg)
			logger.Warn(msg)
		}
		cfg.byID[ri.ID] = &Interview{ID: ri.ID, Title: ri.Title, Version: ri.Version, Bank: qb, Steps: flat}
	}

	return cfg, nil
}
