package extract

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/section"
	"github.com/ribkatam/10-K-filing-RFD-extractor/pkg/titles"
)

// Heuristics is the YAML override file for the locator and classifier
// thresholds. Omitted fields keep their defaults.
type Heuristics struct {
	Section struct {
		StartPattern    string `yaml:"start_pattern"`
		EndPattern      string `yaml:"end_pattern"`
		MaxHeadingWords int    `yaml:"max_heading_words"`
		Lookahead       int    `yaml:"lookahead"`
		MinContentWords int    `yaml:"min_content_words"`
	} `yaml:"section"`
	Titles struct {
		MinChars int `yaml:"min_chars"`
		MinWords int `yaml:"min_words"`
		MaxChars int `yaml:"max_chars"`
	} `yaml:"titles"`
}

// LoadHeuristics reads a YAML override file and returns an Extractor
// built from the defaults with the file's non-zero fields applied.
func LoadHeuristics(path string) (*Extractor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read heuristics file: %w", err)
	}

	var h Heuristics
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("failed to parse heuristics file: %w", err)
	}

	sectionCfg := section.DefaultConfig()
	if h.Section.StartPattern != "" {
		re, err := regexp.Compile(h.Section.StartPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid start_pattern: %w", err)
		}
		sectionCfg.StartPattern = re
	}
	if h.Section.EndPattern != "" {
		re, err := regexp.Compile(h.Section.EndPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid end_pattern: %w", err)
		}
		sectionCfg.EndPattern = re
	}
	if h.Section.MaxHeadingWords > 0 {
		sectionCfg.MaxHeadingWords = h.Section.MaxHeadingWords
	}
	if h.Section.Lookahead > 0 {
		sectionCfg.Lookahead = h.Section.Lookahead
	}
	if h.Section.MinContentWords > 0 {
		sectionCfg.MinContentWords = h.Section.MinContentWords
	}

	titleCfg := titles.DefaultConfig()
	if h.Titles.MinChars > 0 {
		titleCfg.MinChars = h.Titles.MinChars
	}
	if h.Titles.MinWords > 0 {
		titleCfg.MinWords = h.Titles.MinWords
	}
	if h.Titles.MaxChars > 0 {
		titleCfg.MaxChars = h.Titles.MaxChars
	}

	return New(sectionCfg, titleCfg), nil
}
