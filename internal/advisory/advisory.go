// Package advisory maps the latest logged activity to a canned guidance
// message through an ordered keyword rule table.
package advisory

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeanpaul/krishisakhi/internal/farm"
)

// Class tags each advisory message so callers can react without parsing the
// text.
type Class string

const (
	NoActivity   Class = "no_activity"
	RainExpected Class = "rain_expected"
	PestAlert    Class = "pest_alert"
	HarvestReady Class = "harvest_ready"
	MonitorCrop  Class = "monitor_crop"
)

// Advice is a classified guidance message.
type Advice struct {
	Class   Class
	Message string
}

// Rule matches any of its keywords as a case-insensitive substring of the
// latest activity text. Rules are evaluated in order; the first hit wins.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Class    Class    `yaml:"class"`
	Message  string   `yaml:"message"`
}

func defaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"irrigation"},
			Class:    RainExpected,
			Message:  "Rain expected tomorrow – avoid irrigation.",
		},
		{
			Keywords: []string{"pest", "spray"},
			Class:    PestAlert,
			Message:  "Inspect your crop – pest alert nearby. Consider a neem-based treatment.",
		},
		{
			Keywords: []string{"harvest"},
			Class:    HarvestReady,
			Message:  "Good time to harvest – prepare storage.",
		},
	}
}

var (
	monitorAdvice    = Advice{Class: MonitorCrop, Message: "Keep monitoring your crop regularly."}
	noActivityAdvice = Advice{Class: NoActivity, Message: "No activities logged yet."}
)

// Engine evaluates the rule table.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine with the built-in rule set.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules()}
}

// NewEngineWithRules returns an engine with a custom rule table, keeping the
// built-in monitor/no-activity fallbacks.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Advise classifies the latest activity text. It is total: every input maps
// to exactly one class, ties broken by rule order.
func (e *Engine) Advise(latest string) Advice {
	lower := strings.ToLower(latest)
	for _, r := range e.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return Advice{Class: r.Class, Message: r.Message}
			}
		}
	}
	return monitorAdvice
}

// AdviseLog classifies the log's most recent entry, returning a distinct
// no-activity advice for an empty log.
func (e *Engine) AdviseLog(l *farm.Log) Advice {
	latest, ok := l.Latest()
	if !ok {
		return noActivityAdvice
	}
	return e.Advise(latest.Activity)
}

// LoadRules reads a YAML rule override file so keywords and wording can be
// tuned per district without a rebuild. A malformed file is an error; the
// caller keeps serving defaults.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse advisory rules %s: %w", path, err)
	}
	for i, r := range rules {
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("advisory rules %s: rule %d has no keywords", path, i+1)
		}
		if r.Message == "" {
			return nil, fmt.Errorf("advisory rules %s: rule %d has no message", path, i+1)
		}
	}
	return rules, nil
}
