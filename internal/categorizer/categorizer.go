// Package categorizer implements the category rule engine: an ordered mapping
// of regular-expression patterns to category labels, applied first-match-wins
// to free-text transaction descriptions.
package categorizer

import (
	"fmt"
	"os"
	"regexp"

	"finledger/ingest/internal/logging"

	"gopkg.in/yaml.v3"
)

// Rule pairs a regular-expression pattern with the category it assigns.
type Rule struct {
	Pattern  string
	Category string
}

// RuleEngine classifies descriptions against an ordered rule list. The order
// is exactly the order of the mapping document: multiple patterns may match
// the same description, and the first one wins. The engine is loaded once per
// run and is read-only afterwards.
type RuleEngine struct {
	rules  []compiledRule
	logger logging.Logger
}

type compiledRule struct {
	pattern  string
	category string
	re       *regexp.Regexp
}

// NewRuleEngine compiles the given rules in order. Patterns are unanchored,
// case-insensitive substring searches. An invalid pattern is a configuration
// error and fails the whole load.
func NewRuleEngine(rules []Rule, logger logging.Logger) (*RuleEngine, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid category pattern %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledRule{
			pattern:  rule.Pattern,
			category: rule.Category,
			re:       re,
		})
	}

	return &RuleEngine{rules: compiled, logger: logger}, nil
}

// LoadRules reads the category mapping document, a YAML mapping from pattern
// to label. Document order is preserved, which is why the mapping is walked
// through yaml.Node instead of a Go map. A missing or malformed file is a
// fatal configuration error for the run.
func LoadRules(filePath string, logger logging.Logger) (*RuleEngine, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- mapping file path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading category mappings %s: %w", filePath, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing category mappings %s: %w", filePath, err)
	}

	rules, err := rulesFromDocument(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid category mappings %s: %w", filePath, err)
	}

	logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "rules", Value: len(rules)},
	).Info("Loaded category mappings")

	return NewRuleEngine(rules, logger)
}

// Classify returns the category of the first pattern matching the
// description, in mapping order. ok is false when no pattern matches; the
// caller decides the fallback.
func (e *RuleEngine) Classify(description string) (string, bool) {
	for _, rule := range e.rules {
		if rule.re.MatchString(description) {
			return rule.category, true
		}
	}
	return "", false
}

// Len returns the number of loaded rules.
func (e *RuleEngine) Len() int {
	return len(e.rules)
}

func rulesFromDocument(doc *yaml.Node) ([]Rule, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of pattern to category")
	}

	rules := make([]Rule, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("category for pattern %q must be a scalar", key.Value)
		}
		rules = append(rules, Rule{Pattern: key.Value, Category: value.Value})
	}
	return rules, nil
}
