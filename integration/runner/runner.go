package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/wasteland-engine/internal/handlers"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted suites against a running wasteland-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	WorldOverride     string // If set, overrides the world for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML or JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.Unmarshal(content, &suite)
	default:
		err = yaml.Unmarshal(content, &suite)
	}
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// DiscoverCases lists the case files in dir, sorted by name.
func DiscoverCases(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// RunSuite plays a complete test suite in a fresh game. The game is
// deleted afterwards.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	worldID := suite.World
	if r.WorldOverride != "" {
		worldID = r.WorldOverride
	}

	created, err := r.createGame(ctx, worldID)
	if err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	gameID := created.Game.ID
	defer func() {
		if err := r.deleteGame(context.WithoutCancel(ctx), gameID); err != nil {
			r.Logger("    warning: failed to delete game %s: %v", gameID, err)
		}
	}()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		var stepResult TestResult
		gameID, stepResult = r.executeStep(ctx, gameID, worldID, step)
		result.Results = append(result.Results, stepResult)
		result.GameID = gameID

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.GameID = gameID
	result.Duration = time.Since(start)
	return result, result.Error
}

// executeStep runs one step and returns the game id to use afterwards,
// which changes on restart.
func (r *Runner) executeStep(ctx context.Context, gameID uuid.UUID, worldID string, step TestStep) (uuid.UUID, TestResult) {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	var turn *handlers.TurnResponse
	if step.Command == RestartCommand {
		if err := r.deleteGame(ctx, gameID); err != nil {
			result.Error = fmt.Errorf("failed to delete game: %w", err)
			result.Duration = time.Since(start)
			return gameID, result
		}
		created, err := r.createGame(ctx, worldID)
		if err != nil {
			result.Error = fmt.Errorf("failed to restart game: %w", err)
			result.Duration = time.Since(start)
			return gameID, result
		}
		gameID = created.Game.ID
		turn = created
		result.IsReset = true
	} else {
		repeat := max(step.Repeat, 1)
		for i := 0; i < repeat; i++ {
			var err error
			turn, err = r.sendCommand(ctx, gameID, step.Command)
			if err != nil {
				result.Error = fmt.Errorf("command %q failed: %w", step.Command, err)
				result.Duration = time.Since(start)
				return gameID, result
			}
		}
	}

	result.LogText = logText(turn.Logs)
	if err := checkExpectations(step.Expectations, turn); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return gameID, result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return gameID, result
}

func logText(entries []state.LogEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Text
	}
	return strings.Join(lines, "\n")
}

// checkExpectations validates a step's expectations against the turn it produced
func checkExpectations(exp Expectations, turn *handlers.TurnResponse) error {
	st := turn.Game.Status

	if exp.Location != nil && st.Location != *exp.Location {
		return fmt.Errorf("expected location %q, got %q", *exp.Location, st.Location)
	}

	if exp.Inventory != nil {
		got := slices.Clone(turn.Game.Inventory)
		want := slices.Clone(exp.Inventory)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return fmt.Errorf("expected inventory %v, got %v", exp.Inventory, turn.Game.Inventory)
		}
	}

	if exp.Health != nil && st.PlayerHealth != *exp.Health {
		return fmt.Errorf("expected health %d, got %d", *exp.Health, st.PlayerHealth)
	}

	if exp.Weapon != nil && st.Weapon != *exp.Weapon {
		return fmt.Errorf("expected weapon %q, got %q", *exp.Weapon, st.Weapon)
	}

	if exp.Enemy != nil && st.Enemy != *exp.Enemy {
		return fmt.Errorf("expected enemy %q, got %q", *exp.Enemy, st.Enemy)
	}

	if exp.EnemyHealth != nil && st.EnemyHealth != *exp.EnemyHealth {
		return fmt.Errorf("expected enemy health %d, got %d", *exp.EnemyHealth, st.EnemyHealth)
	}

	if exp.IsGameOver != nil && st.IsGameOver != *exp.IsGameOver {
		return fmt.Errorf("expected is_game_over to be %t, got %t", *exp.IsGameOver, st.IsGameOver)
	}

	text := strings.ToLower(logText(turn.Logs))
	for _, want := range exp.LogContains {
		if !strings.Contains(text, strings.ToLower(want)) {
			return fmt.Errorf("expected log to contain %q, got:\n%s", want, text)
		}
	}
	for _, unwanted := range exp.LogNotContains {
		if strings.Contains(text, strings.ToLower(unwanted)) {
			return fmt.Errorf("expected log to NOT contain %q", unwanted)
		}
	}

	if exp.LogRegex != "" {
		matched, err := regexp.MatchString(exp.LogRegex, logText(turn.Logs))
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("log didn't match regex pattern: %s", exp.LogRegex)
		}
	}

	for _, kind := range exp.LogKinds {
		if !slices.ContainsFunc(turn.Logs, func(e state.LogEntry) bool { return string(e.Kind) == kind }) {
			return fmt.Errorf("expected a %q log entry", kind)
		}
	}

	return nil
}

func (r *Runner) createGame(ctx context.Context, worldID string) (*handlers.TurnResponse, error) {
	body := map[string]string{}
	if worldID != "" {
		body["world"] = worldID
	}
	var resp handlers.TurnResponse
	if err := r.doJSON(ctx, http.MethodPost, "/v1/games", body, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *Runner) sendCommand(ctx context.Context, gameID uuid.UUID, command string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	body := map[string]string{"command": command}
	if err := r.doJSON(ctx, http.MethodPost, "/v1/games/"+gameID.String()+"/commands", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *Runner) deleteGame(ctx context.Context, gameID uuid.UUID) error {
	return r.doJSON(ctx, http.MethodDelete, "/v1/games/"+gameID.String(), nil, http.StatusNoContent, nil)
}

func (r *Runner) doJSON(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
