package runner

import (
	"time"

	"github.com/google/uuid"
)

// RestartCommand as a step command discards the game and starts a fresh one
// in the same world.
const RestartCommand = "RESTART"

// TestSuite is one scripted playthrough. A suite either has Steps or lists
// other case files in Cases.
type TestSuite struct {
	Name  string     `yaml:"name" json:"name"`
	World string     `yaml:"world,omitempty" json:"world,omitempty"`
	Steps []TestStep `yaml:"steps,omitempty" json:"steps,omitempty"`
	Cases []string   `yaml:"cases,omitempty" json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep submits Command (Repeat times, default once) and checks the
// expectations against the last turn.
type TestStep struct {
	Name         string       `yaml:"name,omitempty" json:"name,omitempty"`
	Command      string       `yaml:"command" json:"command"`
	Repeat       int          `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	Expectations Expectations `yaml:"expect" json:"expect"`
}

// Expectations are checked after a step. Nil fields are not checked.
type Expectations struct {
	Location    *string  `yaml:"location,omitempty" json:"location,omitempty"`
	Inventory   []string `yaml:"inventory,omitempty" json:"inventory,omitempty"` // order independent; [] means empty
	Health      *int     `yaml:"health,omitempty" json:"health,omitempty"`
	Weapon      *string  `yaml:"weapon,omitempty" json:"weapon,omitempty"`
	Enemy       *string  `yaml:"enemy,omitempty" json:"enemy,omitempty"` // "" means not in combat
	EnemyHealth *int     `yaml:"enemy_health,omitempty" json:"enemy_health,omitempty"`
	IsGameOver  *bool    `yaml:"is_game_over,omitempty" json:"is_game_over,omitempty"`

	// Checks over the text of the entries the step produced
	LogContains    []string `yaml:"log_contains,omitempty" json:"log_contains,omitempty"`
	LogNotContains []string `yaml:"log_not_contains,omitempty" json:"log_not_contains,omitempty"`
	LogRegex       string   `yaml:"log_regex,omitempty" json:"log_regex,omitempty"`
	LogKinds       []string `yaml:"log_kinds,omitempty" json:"log_kinds,omitempty"` // kinds that must appear
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	LogText  string
	IsReset  bool // restart steps do not count toward pass/fail metrics
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	GameID   uuid.UUID // last game used by the suite
}
