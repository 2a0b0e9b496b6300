package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains prompt and notice texts loaded from YAML
type PromptsConfig struct {
	Prompt  PromptTexts   `yaml:"prompt"`
	Notices NoticeTexts   `yaml:"notices"`
	History HistoryConfig `yaml:"history"`
}

// PromptTexts contains prompt rendering configuration
type PromptTexts struct {
	// Header is prepended to the rendered history when non-empty.
	// Empty by default: the prompt is exactly the history lines.
	Header string `yaml:"header"`
}

// NoticeTexts contains the user-visible notices
type NoticeTexts struct {
	Busy    string `yaml:"busy"`
	Timeout string `yaml:"timeout"`
	Failure string `yaml:"failure"` // "%s" is replaced with the diagnostic excerpt
}

// FormatFailure renders the failure notice with the diagnostic excerpt
func (n *NoticeTexts) FormatFailure(excerpt string) string {
	return strings.ReplaceAll(n.Failure, "%s", excerpt)
}

// HistoryConfig contains history buffer settings
type HistoryConfig struct {
	MaxCount int `yaml:"max_count"` // 0 = use BUFFER_CAPACITY / default
}

// DefaultPromptsConfig returns the built-in defaults
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Notices: NoticeTexts{
			Busy:    "Still working on the previous request, please wait...",
			Timeout: "The agent did not finish in time and was stopped.",
			Failure: "Agent error: %s",
		},
	}
}

// LoadPromptsConfig loads prompts configuration from a YAML file.
// Missing file means defaults; a malformed file is an error.
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/tg-codex-gateway/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		return DefaultPromptsConfig(), nil
	}

	fmt.Printf("[Config] Loading prompts from: %s\n", loadedPath)

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse prompts.yaml: %w", err)
	}
	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()
	if c.Notices.Busy == "" {
		c.Notices.Busy = defaults.Notices.Busy
	}
	if c.Notices.Timeout == "" {
		c.Notices.Timeout = defaults.Notices.Timeout
	}
	if c.Notices.Failure == "" {
		c.Notices.Failure = defaults.Notices.Failure
	}
	if !strings.Contains(c.Notices.Failure, "%s") {
		fmt.Printf("[Config] Failure notice has no %%s placeholder, using default\n")
		c.Notices.Failure = defaults.Notices.Failure
	}
}
