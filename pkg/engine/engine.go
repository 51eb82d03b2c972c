// Package engine is the turn processor: it applies one structured action to
// a game state and returns the next state with the log entries the turn
// produced.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

// Engine processes turns. It holds no game state and no locks; callers
// submit one turn per game at a time.
type Engine struct {
	interpreter action.Interpreter
	narrator    narrative.Generator
	logger      *slog.Logger
}

// New creates an engine. Nil dependencies fall back to the rule-based
// interpreter, the static narrator and the default logger.
func New(interpreter action.Interpreter, narrator narrative.Generator, logger *slog.Logger) *Engine {
	if interpreter == nil {
		interpreter = action.NewRuleInterpreter()
	}
	if narrator == nil {
		narrator = narrative.NewStaticNarrator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{interpreter: interpreter, narrator: narrator, logger: logger}
}

// turn is the scratch state of one ProcessTurn call.
type turn struct {
	ctx     context.Context
	e       *Engine
	gs      *state.GameState
	entries []state.LogEntry
	combat  bool // the engaged enemy retaliates after dispatch
}

func (e *Engine) begin(ctx context.Context, gs *state.GameState) *turn {
	return &turn{ctx: ctx, e: e, gs: gs.Clone(), entries: []state.LogEntry{}}
}

func (t *turn) add(kind state.LogKind, text string) {
	t.entries = append(t.entries, t.gs.AddLog(kind, text))
}

func (t *turn) narrate(ev narrative.Event) string {
	text := t.e.narrator.Narrate(t.ctx, ev)
	if strings.TrimSpace(text) == "" {
		t.e.logger.Warn("Narrator returned no text", "kind", ev.Kind)
		return narrative.FallbackText
	}
	return text
}

func (t *turn) finish() (*state.GameState, []state.LogEntry) {
	t.gs.UpdatedAt = time.Now()
	return t.gs, t.entries
}

// NewGame starts a game from a world template: the template is copied, the
// player is placed at the start location and the intro is narrated.
func (e *Engine) NewGame(ctx context.Context, tmpl *world.World) (*state.GameState, []state.LogEntry) {
	t := &turn{ctx: ctx, e: e, gs: state.NewGameState(tmpl), entries: []state.LogEntry{}}
	w := t.gs.World
	t.add(state.LogSystem, t.narrate(narrative.Event{
		Kind:  narrative.KindIntro,
		Title: w.Title,
		Intro: w.Intro,
	}))
	t.enterLocation()
	e.logger.Debug("New game started", "game_id", t.gs.ID, "world", t.gs.WorldID)
	return t.finish()
}

// ProcessCommand echoes the raw command, interprets it and processes the
// resulting action. A finished game only gets the death message.
func (e *Engine) ProcessCommand(ctx context.Context, raw string, gs *state.GameState) (*state.GameState, []state.LogEntry) {
	t := e.begin(ctx, gs)
	if t.gs.IsGameOver {
		t.dispatch(action.Action{Type: action.Unknown, Target: raw})
		return t.finish()
	}
	t.add(state.LogPlayer, raw)
	a := e.interpreter.Interpret(ctx, raw, action.BuildContext(t.gs))
	e.logger.Debug("Command interpreted", "game_id", t.gs.ID, "command", raw, "action", a.Type, "target", a.Target)
	t.dispatch(a)
	return t.finish()
}

// ProcessTurn applies one action. The input state is not modified; the
// returned state carries the new log entries, which are also returned on
// their own.
func (e *Engine) ProcessTurn(ctx context.Context, a action.Action, gs *state.GameState) (*state.GameState, []state.LogEntry) {
	t := e.begin(ctx, gs)
	t.dispatch(a)
	return t.finish()
}

func (t *turn) dispatch(a action.Action) {
	if t.gs.IsGameOver {
		t.add(state.LogError, MsgGameOver)
		return
	}
	t.e.logger.Debug("Processing action", "game_id", t.gs.ID, "action", a.Type, "target", a.Target)

	switch a.Type {
	case action.Goto:
		t.doGoto(a.Target)
	case action.Examine:
		t.doExamine(a.Target)
	case action.Take:
		t.doTake(a.Target)
	case action.Open:
		t.doOpen(a.Target)
	case action.Use:
		t.doUse(a.Target)
	case action.Equip:
		t.doEquip(a.Target)
	case action.Attack:
		t.doAttack()
	case action.Inventory:
		t.doInventory()
	case action.Help:
		t.add(state.LogSystem, MsgHelp)
	default:
		t.add(state.LogError, MsgUnknown)
	}

	if t.combat {
		t.enemyAttack()
		t.e.logger.Debug("Combat exchange resolved", "game_id", t.gs.ID, "summary", combatSummary(t.gs))
	}
}
