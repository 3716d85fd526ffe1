package fsm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a declarative description of a machine's intended transition
// graph. It does not drive dispatch (transition legality lives in the states
// themselves); it documents the graph and lets tooling and tests lint it.
type Config struct {
	Name    string       `json:"name"    yaml:"name"`
	Initial string       `json:"initial" yaml:"initial"`
	States  []string     `json:"states"  yaml:"states"`
	Events  []string     `json:"events"  yaml:"events"`
	Edges   []EdgeConfig `json:"edges"   yaml:"edges"`
}

// EdgeConfig describes a single allowed transition.
type EdgeConfig struct {
	From  string `json:"from"  yaml:"from"`
	Event string `json:"event" yaml:"event"`
	To    string `json:"to"    yaml:"to"`
}

// LoadConfig loads a machine configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates a machine configuration from YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrConfigNameRequired
	}

	if c.Initial == "" {
		return ErrInitialStateRequired
	}

	if len(c.States) == 0 {
		return ErrStateRequired
	}

	if len(c.Events) == 0 {
		return ErrEventRequired
	}

	states := make(map[string]bool, len(c.States))

	for _, state := range c.States {
		if states[state] {
			return fmt.Errorf("%w: %s", ErrDuplicateState, state)
		}

		states[state] = true
	}

	events := make(map[string]bool, len(c.Events))

	for _, event := range c.Events {
		if events[event] {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, event)
		}

		events[event] = true
	}

	if !states[c.Initial] {
		return fmt.Errorf("%w: %s", ErrInitialStateNotFound, c.Initial)
	}

	for i, edge := range c.Edges {
		if !states[edge.From] {
			return fmt.Errorf("edge %d: %w: %s", i, ErrEdgeFromNotFound, edge.From)
		}

		if !states[edge.To] {
			return fmt.Errorf("edge %d: %w: %s", i, ErrEdgeToNotFound, edge.To)
		}

		if !events[edge.Event] {
			return fmt.Errorf("edge %d: %w: %s", i, ErrEdgeEventNotFound, edge.Event)
		}
	}

	reachable := c.findReachableStates()

	for _, state := range c.States {
		if !reachable[state] {
			return fmt.Errorf("%w: %s", ErrStateUnreachable, state)
		}
	}

	return nil
}

// findReachableStates finds all states reachable from the initial state.
func (c *Config) findReachableStates() map[string]bool {
	reachable := make(map[string]bool)
	reachable[c.Initial] = true

	// Simple BFS
	queue := []string{c.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range c.Edges {
			if edge.From == current && !reachable[edge.To] {
				reachable[edge.To] = true
				queue = append(queue, edge.To)
			}
		}
	}

	return reachable
}
