package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNarrator returns a fixed text and remembers every event.
type recordingNarrator struct {
	text   string
	events []narrative.Event
}

func (r *recordingNarrator) Narrate(_ context.Context, e narrative.Event) string {
	r.events = append(r.events, e)
	return r.text
}

func (r *recordingNarrator) last() narrative.Event {
	return r.events[len(r.events)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine() (*Engine, *recordingNarrator) {
	n := &recordingNarrator{text: "narración"}
	return New(nil, n, testLogger()), n
}

// play runs actions in order, checking the state invariants after each one.
func play(t *testing.T, e *Engine, gs *state.GameState, actions ...action.Action) (*state.GameState, []state.LogEntry) {
	t.Helper()
	var entries []state.LogEntry
	for _, a := range actions {
		gs, entries = e.ProcessTurn(context.Background(), a, gs)
		require.NoError(t, gs.CheckInvariants(), "after %s %q", a.Type, a.Target)
	}
	return gs, entries
}

func act(t action.Type, target string) action.Action {
	return action.Action{Type: t, Target: target}
}

func kinds(entries []state.LogEntry) []state.LogKind {
	out := make([]state.LogKind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

// toSupermarket walks from the crash site into the mutant's lair.
func toSupermarket(t *testing.T, e *Engine) (*state.GameState, []state.LogEntry) {
	t.Helper()
	gs, _ := e.NewGame(context.Background(), world.Default())
	return play(t, e, gs, act(action.Goto, "afuera"), act(action.Goto, "norte"), act(action.Goto, "este"))
}

// armed gives the player the lead pipe and equips it.
func armed(gs *state.GameState) {
	loc := gs.World.Locations["supermercado"]
	world.MoveItem("tuberia_plomo", &loc.Items, &gs.Inventory)
	gs.EquippedWeapon = "tuberia_plomo"
}

func TestNew_Defaults(t *testing.T) {
	e := New(nil, nil, nil)
	assert.NotNil(t, e.interpreter)
	assert.NotNil(t, e.narrator)
	assert.NotNil(t, e.logger)
}

func TestNewGame(t *testing.T) {
	e, n := newTestEngine()
	tmpl := world.Default()
	gs, entries := e.NewGame(context.Background(), tmpl)

	require.Len(t, entries, 2)
	assert.Equal(t, []state.LogKind{state.LogSystem, state.LogSystem}, kinds(entries))
	assert.Equal(t, 0, entries[0].ID)
	assert.Equal(t, 1, entries[1].ID)
	assert.Equal(t, entries, gs.Log)

	assert.Equal(t, narrative.KindIntro, n.events[0].Kind)
	assert.Equal(t, "Ecos Nucleares", n.events[0].Title)
	assert.Equal(t, narrative.KindLocation, n.events[1].Kind)
	assert.Equal(t, "Cabina Estrellada", n.events[1].Name)
	assert.Equal(t, []string{"Botiquín de Primeros Auxilios"}, n.events[1].Items)
	assert.Equal(t, []string{"afuera"}, n.events[1].Exits)

	assert.Equal(t, "cockpit", gs.CurrentLocationID)
	assert.Equal(t, 100, gs.PlayerHealth)
	assert.False(t, gs.InCombat())
	require.NoError(t, gs.CheckInvariants())

	// two games never share a world
	other, _ := e.NewGame(context.Background(), tmpl)
	gs.World.Locations["cockpit"].Items = nil
	assert.Equal(t, []string{"botiquin"}, other.World.Locations["cockpit"].Items)
	assert.Equal(t, []string{"botiquin"}, tmpl.Locations["cockpit"].Items)
	assert.NotEqual(t, gs.ID, other.ID)
}

func TestProcessTurn_DoesNotMutateInput(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())
	logLen := len(gs.Log)

	next, entries := e.ProcessTurn(context.Background(), act(action.Open, "botiquin"), gs)
	require.Len(t, entries, 1)

	assert.Len(t, gs.Log, logLen)
	assert.False(t, gs.World.Items["botiquin"].IsOpen)
	assert.Equal(t, []string{"botiquin"}, gs.World.Locations["cockpit"].Items)
	assert.True(t, next.World.Items["botiquin"].IsOpen)
	assert.Len(t, next.Log, logLen+1)
	assert.Equal(t, logLen, entries[0].ID)
}

func TestProcessTurn_Goto(t *testing.T) {
	e, n := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())

	t.Run("moves through a matching exit", func(t *testing.T) {
		next, entries := play(t, e, gs, act(action.Goto, "afuera"))
		assert.Equal(t, "desierto", next.CurrentLocationID)
		assert.Equal(t, []state.LogKind{state.LogSystem}, kinds(entries))
		assert.Equal(t, "Páramo Desértico", n.last().Name)
	})

	t.Run("unknown exit never moves", func(t *testing.T) {
		next := gs
		for range 3 {
			var entries []state.LogEntry
			next, entries = play(t, e, next, act(action.Goto, "norte"))
			require.Len(t, entries, 1)
			assert.Equal(t, state.LogError, entries[0].Kind)
			assert.Equal(t, MsgNoExit, entries[0].Text)
			assert.Equal(t, "cockpit", next.CurrentLocationID)
		}
	})

	t.Run("empty target", func(t *testing.T) {
		_, entries := play(t, e, gs, act(action.Goto, ""))
		require.Len(t, entries, 1)
		assert.Equal(t, MsgWhereTo, entries[0].Text)
	})

	t.Run("aggressive enemy engages on arrival", func(t *testing.T) {
		next, entries := toSupermarket(t, e)
		assert.Equal(t, "supermercado", next.CurrentLocationID)
		assert.Equal(t, "mutante_desgarbado", next.CurrentEnemyID)
		assert.Equal(t, []state.LogKind{state.LogSystem, state.LogEnemyTurn}, kinds(entries))
		assert.Equal(t, next.World.Enemies["mutante_desgarbado"].DescriptionOnEnter, entries[1].Text)
		assert.Equal(t, 100, next.PlayerHealth, "arriving is not a combat turn")
	})

	t.Run("cannot flee from combat", func(t *testing.T) {
		gs, _ := toSupermarket(t, e)
		next, entries := play(t, e, gs, act(action.Goto, "oeste"))
		require.Len(t, entries, 1)
		assert.Equal(t, MsgCannotFlee, entries[0].Text)
		assert.Equal(t, "supermercado", next.CurrentLocationID)
		assert.Equal(t, 100, next.PlayerHealth)
	})
}

func TestProcessTurn_Examine(t *testing.T) {
	e, n := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())

	for _, target := range []string{"", "alrededor"} {
		_, entries := play(t, e, gs, act(action.Examine, target))
		require.Len(t, entries, 1)
		assert.Equal(t, state.LogSystem, entries[0].Kind)
		assert.Equal(t, narrative.KindLocation, n.last().Kind)
	}

	_, entries := play(t, e, gs, act(action.Examine, "botiquin"))
	require.Len(t, entries, 1)
	ev := n.last()
	assert.Equal(t, narrative.KindItem, ev.Kind)
	assert.Equal(t, "Botiquín de Primeros Auxilios", ev.Name)
	assert.True(t, ev.IsContainer)
	assert.False(t, ev.IsOpen)
	assert.Equal(t, []string{"Venda Estéril"}, ev.Contents)

	_, entries = play(t, e, gs, act(action.Examine, "dragon"))
	require.Len(t, entries, 1)
	assert.Equal(t, state.LogError, entries[0].Kind)
	assert.Equal(t, `No ves ningún "dragon" por aquí.`, entries[0].Text)

	t.Run("inventory items", func(t *testing.T) {
		gs, _ := play(t, e, gs, act(action.Open, "botiquin"), act(action.Take, "venda"))
		_, entries := play(t, e, gs, act(action.Examine, "venda"))
		require.Len(t, entries, 1)
		assert.Equal(t, "Venda Estéril", n.last().Name)
	})

	t.Run("enemies", func(t *testing.T) {
		gs, _ := toSupermarket(t, e)
		next, entries := play(t, e, gs, act(action.Examine, "mutante"))
		require.Len(t, entries, 1)
		assert.Equal(t, state.LogSystem, entries[0].Kind)
		assert.Equal(t, gs.World.Enemies["mutante_desgarbado"].Description+" Parece hostil.", entries[0].Text)
		assert.Equal(t, 100, next.PlayerHealth, "examining is not a combat turn")
	})
}

func TestProcessTurn_TakeAndOpen(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())

	// a closed container has to be opened first
	gs, entries := play(t, e, gs, act(action.Take, "botiquin"))
	require.Len(t, entries, 1)
	assert.Equal(t, state.LogError, entries[0].Kind)
	assert.Equal(t, MsgOpenItFirst, entries[0].Text)
	assert.Empty(t, gs.Inventory)

	gs, entries = play(t, e, gs, act(action.Open, "botiquin"))
	require.Len(t, entries, 1)
	assert.Equal(t, state.LogInfo, entries[0].Kind)
	assert.Equal(t, "Abres Botiquín de Primeros Auxilios. Dentro encuentras: Venda Estéril. Ahora están en el suelo.", entries[0].Text)
	assert.Equal(t, []string{"botiquin", "venda"}, gs.World.Locations["cockpit"].Items)
	assert.Empty(t, gs.World.Items["botiquin"].Contains)

	// opening again changes nothing
	before := gs.Clone()
	gs, entries = play(t, e, gs, act(action.Open, "botiquin"))
	require.Len(t, entries, 1)
	assert.Equal(t, state.LogInfo, entries[0].Kind)
	assert.Equal(t, "Botiquín de Primeros Auxilios ya está abierto.", entries[0].Text)
	assert.Equal(t, before.World, gs.World)

	gs, entries = play(t, e, gs, act(action.Take, "venda"))
	require.Len(t, entries, 1)
	assert.Equal(t, "Tomas el objeto: Venda Estéril.", entries[0].Text)
	assert.Equal(t, []string{"venda"}, gs.Inventory)
	assert.Equal(t, []string{"botiquin"}, gs.World.Locations["cockpit"].Items)

	// taking twice fails
	gs, entries = play(t, e, gs, act(action.Take, "venda"))
	assert.Equal(t, MsgCannotTake, entries[0].Text)
	assert.Equal(t, []string{"venda"}, gs.Inventory)

	// an opened container can be carried
	gs, entries = play(t, e, gs, act(action.Take, "botiquin"))
	assert.Equal(t, state.LogInfo, entries[0].Kind)
	assert.Equal(t, []string{"venda", "botiquin"}, gs.Inventory)
	assert.Empty(t, gs.World.Locations["cockpit"].Items)

	// opening a carried container is still an info no-op
	_, entries = play(t, e, gs, act(action.Open, "botiquin"))
	assert.Equal(t, state.LogInfo, entries[0].Kind)

	t.Run("errors", func(t *testing.T) {
		_, entries := play(t, e, gs, act(action.Open, "venda"))
		assert.Equal(t, MsgCannotOpen, entries[0].Text)
		_, entries = play(t, e, gs, act(action.Open, "puerta"))
		assert.Equal(t, `No ves ningún "puerta" para abrir.`, entries[0].Text)
		_, entries = play(t, e, gs, act(action.Open, ""))
		assert.Equal(t, MsgWhatOpen, entries[0].Text)
		_, entries = play(t, e, gs, act(action.Take, ""))
		assert.Equal(t, MsgWhatTake, entries[0].Text)
	})
}

func TestProcessTurn_OpenEmptyContainer(t *testing.T) {
	e, _ := newTestEngine()
	w := world.Default()
	w.Items["botiquin"].Contains = []string{}
	w.Locations["cockpit"].Items = []string{"botiquin"}
	delete(w.Items, "venda")

	gs, _ := e.NewGame(context.Background(), w)
	_, entries := play(t, e, gs, act(action.Open, "botiquin"))
	require.Len(t, entries, 1)
	assert.Equal(t, "Abres Botiquín de Primeros Auxilios, pero está vacío.", entries[0].Text)
}

func TestProcessTurn_Use(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())
	gs, _ = play(t, e, gs, act(action.Open, "botiquin"), act(action.Take, "venda"))

	t.Run("heals capped at max", func(t *testing.T) {
		next, entries := play(t, e, gs, act(action.Use, "venda"))
		require.Len(t, entries, 1)
		assert.Equal(t, "Usas Venda Estéril. Sientes cómo tus heridas se cierran un poco. Tu salud ha mejorado.", entries[0].Text)
		assert.Equal(t, 100, next.PlayerHealth)
		assert.Empty(t, next.Inventory)
	})

	t.Run("heals 25", func(t *testing.T) {
		hurt := gs.Clone()
		hurt.PlayerHealth = 60
		next, _ := play(t, e, hurt, act(action.Use, "venda"))
		assert.Equal(t, 85, next.PlayerHealth)
		assert.Empty(t, next.Inventory)
	})

	t.Run("not carried", func(t *testing.T) {
		_, entries := play(t, e, gs, act(action.Use, "espada"))
		assert.Equal(t, `No tienes "espada" en tu inventario.`, entries[0].Text)
		_, entries = play(t, e, gs, act(action.Use, ""))
		assert.Equal(t, MsgWhatUse, entries[0].Text)
	})

	t.Run("no usable effect", func(t *testing.T) {
		withBox, _ := play(t, e, gs, act(action.Take, "botiquin"))
		next, entries := play(t, e, withBox, act(action.Use, "botiquin"))
		assert.Equal(t, state.LogError, entries[0].Kind)
		assert.Equal(t, "No sabes cómo usar Botiquín de Primeros Auxilios de esa manera.", entries[0].Text)
		assert.Equal(t, withBox.Inventory, next.Inventory)
	})
}

func TestProcessTurn_Equip(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())
	gs.CurrentLocationID = "oasis"
	gs, _ = play(t, e, gs, act(action.Take, "llave"))

	next, entries := play(t, e, gs, act(action.Equip, "llave"))
	assert.Equal(t, "No puedes equipar Llave Oxidada.", entries[0].Text)
	assert.Empty(t, next.EquippedWeapon)

	_, entries = play(t, e, gs, act(action.Equip, "tuberia"))
	assert.Equal(t, `No tienes "tuberia" en tu inventario.`, entries[0].Text)

	_, entries = play(t, e, gs, act(action.Equip, ""))
	assert.Equal(t, MsgWhatEquip, entries[0].Text)

	gs.CurrentLocationID = "desierto"
	gs.Inventory = append(gs.Inventory, "tuberia_plomo")
	gs.World.Locations["supermercado"].Items = []string{}
	next, entries = play(t, e, gs, act(action.Equip, "tuberia"))
	assert.Equal(t, "Equipas: Tubería de Plomo.", entries[0].Text)
	assert.Equal(t, "tuberia_plomo", next.EquippedWeapon)

	_, entries = play(t, e, next, act(action.Inventory, ""))
	require.Len(t, entries, 1)
	assert.Equal(t, "Llevas lo siguiente:\n- Llave Oxidada\n- Tubería de Plomo (Equipado)", entries[0].Text)
}

func TestProcessTurn_InventoryHelpUnknown(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())

	_, entries := play(t, e, gs, act(action.Inventory, ""))
	assert.Equal(t, []state.LogEntry{{ID: 2, Kind: state.LogSystem, Text: MsgEmptyInventory}}, entries)

	_, entries = play(t, e, gs, act(action.Help, ""))
	assert.Equal(t, []state.LogEntry{{ID: 2, Kind: state.LogSystem, Text: MsgHelp}}, entries)

	for _, a := range []action.Action{act(action.Unknown, "bailar"), act("DANCE", "")} {
		_, entries = play(t, e, gs, a)
		assert.Equal(t, []state.LogEntry{{ID: 2, Kind: state.LogError, Text: MsgUnknown}}, entries)
	}
}

func TestCombat_UnarmedExchange(t *testing.T) {
	e, n := newTestEngine()
	gs, _ := toSupermarket(t, e)

	next, entries := play(t, e, gs, act(action.Attack, "mutante"))
	assert.Equal(t, []state.LogKind{state.LogCombat, state.LogEnemyTurn}, kinds(entries))
	assert.Equal(t, 35, next.World.Enemies["mutante_desgarbado"].Health)
	assert.Equal(t, 90, next.PlayerHealth)

	strike := n.events[len(n.events)-2]
	assert.True(t, strike.ByPlayer)
	assert.Empty(t, strike.Weapon)
	assert.Equal(t, "Mutante Desgarbado", strike.Defender)
	assert.Equal(t, "Mutante Desgarbado", n.last().Attacker)
	assert.Equal(t, "sus garras", n.last().Weapon)
}

func TestCombat_EnemyWeaponReachesNarrator(t *testing.T) {
	e, n := newTestEngine()
	gs, _ := toSupermarket(t, e)
	gs.World.Enemies["mutante_desgarbado"].Weapon = "un tubo oxidado"

	play(t, e, gs, act(action.Attack, "mutante"))
	assert.Equal(t, narrative.KindStrike, n.last().Kind)
	assert.Equal(t, "un tubo oxidado", n.last().Weapon)

	gs.World.Enemies["mutante_desgarbado"].Weapon = ""
	play(t, e, gs, act(action.Attack, "mutante"))
	assert.Equal(t, world.DefaultEnemyWeapon, n.last().Weapon)
}

func TestCombat_FightToTheEnd(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := toSupermarket(t, e)

	// 8 unarmed hits kill the mutant; it strikes back after the first 7
	var entries []state.LogEntry
	for i := range 8 {
		gs, entries = play(t, e, gs, act(action.Attack, ""))
		if i < 7 {
			require.Equal(t, []state.LogKind{state.LogCombat, state.LogEnemyTurn}, kinds(entries), "round %d", i)
		}
	}
	assert.Equal(t, []state.LogKind{state.LogCombat, state.LogInfo}, kinds(entries))
	assert.Equal(t, "Has derrotado a Mutante Desgarbado. El peligro ha pasado, por ahora.", entries[1].Text)
	assert.Equal(t, 30, gs.PlayerHealth)
	assert.Equal(t, 0, gs.World.Enemies["mutante_desgarbado"].Health)
	assert.Empty(t, gs.CurrentEnemyID)
	assert.NotContains(t, gs.World.Locations["supermercado"].Enemies, "mutante_desgarbado")

	// nothing left to fight, and the way out is open
	_, entries = play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, MsgNothingToHit, entries[0].Text)
	gs, _ = play(t, e, gs, act(action.Goto, "oeste"))
	assert.Equal(t, "oasis", gs.CurrentLocationID)

	// coming back does not resurrect it
	gs, entries = play(t, e, gs, act(action.Goto, "este"))
	assert.Equal(t, []state.LogKind{state.LogSystem}, kinds(entries))
	assert.False(t, gs.InCombat())
}

func TestCombat_ArmedDamage(t *testing.T) {
	e, n := newTestEngine()
	gs, _ := toSupermarket(t, e)
	armed(gs)

	gs, _ = play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, 23, gs.World.Enemies["mutante_desgarbado"].Health)
	assert.Equal(t, "Tubería de Plomo", n.events[len(n.events)-2].Weapon)

	gs, _ = play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, 6, gs.World.Enemies["mutante_desgarbado"].Health)

	gs, entries := play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, []state.LogKind{state.LogCombat, state.LogInfo}, kinds(entries))
	assert.Equal(t, 0, gs.World.Enemies["mutante_desgarbado"].Health, "health is clamped at 0")
	assert.Equal(t, 80, gs.PlayerHealth)
}

func TestCombat_Loot(t *testing.T) {
	e, _ := newTestEngine()
	w := world.Default()
	w.Enemies["mutante_desgarbado"].Drops = []string{"llave_oxidada"}
	w.Locations["oasis"].Items = []string{}

	gs, _ := e.NewGame(context.Background(), w)
	gs, _ = play(t, e, gs, act(action.Goto, "afuera"), act(action.Goto, "norte"), act(action.Goto, "este"))
	armed(gs)

	gs, _ = play(t, e, gs, act(action.Attack, ""), act(action.Attack, ""))
	gs, entries := play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, []state.LogKind{state.LogCombat, state.LogInfo, state.LogInfo}, kinds(entries))
	assert.Equal(t, "Mutante Desgarbado ha soltado: Llave Oxidada.", entries[2].Text)
	assert.Contains(t, gs.World.Locations["supermercado"].Items, "llave_oxidada")

	gs, entries = play(t, e, gs, act(action.Take, "llave"))
	assert.Equal(t, "Tomas el objeto: Llave Oxidada.", entries[0].Text)
	assert.Contains(t, gs.Inventory, "llave_oxidada")
}

func TestCombat_RetaliationOnCombatTurns(t *testing.T) {
	e, _ := newTestEngine()
	start, _ := toSupermarket(t, e)
	start.Inventory = []string{"venda"}
	start.World.Items["botiquin"].Contains = []string{}
	start.World.Locations["cockpit"].Items = []string{"botiquin"}
	start.PlayerHealth = 50

	tests := []struct {
		name      string
		action    action.Action
		wantKinds []state.LogKind
		health    int
	}{
		{"take", act(action.Take, "tuberia"), []state.LogKind{state.LogError, state.LogEnemyTurn}, 40},
		{"use", act(action.Use, "venda"), []state.LogKind{state.LogInfo, state.LogEnemyTurn}, 65},
		{"equip", act(action.Equip, "venda"), []state.LogKind{state.LogError}, 50},
		{"inventory", act(action.Inventory, ""), []state.LogKind{state.LogSystem}, 50},
		{"examine", act(action.Examine, ""), []state.LogKind{state.LogSystem}, 50},
		{"help", act(action.Help, ""), []state.LogKind{state.LogSystem}, 50},
		{"flee", act(action.Goto, "oeste"), []state.LogKind{state.LogError}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, entries := play(t, e, start, tt.action)
			assert.Equal(t, tt.wantKinds, kinds(entries))
			assert.Equal(t, tt.health, next.PlayerHealth)
			assert.Equal(t, 40, next.World.Enemies["mutante_desgarbado"].Health)
		})
	}

	t.Run("equip weapon", func(t *testing.T) {
		gs := start.Clone()
		armed(gs)
		gs.EquippedWeapon = ""
		next, entries := play(t, e, gs, act(action.Equip, "tuberia"))
		assert.Equal(t, []state.LogKind{state.LogInfo, state.LogEnemyTurn}, kinds(entries))
		assert.Equal(t, 40, next.PlayerHealth)
	})
}

func deadlyWorld() *world.World {
	return &world.World{
		ID:              "arena",
		Title:           "Arena",
		Start:           "arena",
		PlayerMaxHealth: 15,
		Locations: map[string]*world.Location{
			"arena": {ID: "arena", Name: "Arena", Exits: map[string]string{}, Items: []string{}, Enemies: []string{"bruto"}},
		},
		Items: map[string]*world.Item{},
		Enemies: map[string]*world.Enemy{
			"bruto": {ID: "bruto", Name: "Bruto", Health: 100, MaxHealth: 100, Attack: 10, IsAggressive: true},
		},
	}
}

func TestCombat_Death(t *testing.T) {
	e, _ := newTestEngine()
	gs, entries := e.NewGame(context.Background(), deadlyWorld())
	assert.Equal(t, []state.LogKind{state.LogSystem, state.LogSystem, state.LogEnemyTurn}, kinds(entries))
	assert.Equal(t, "Bruto se lanza hacia ti.", entries[2].Text)
	require.Equal(t, "bruto", gs.CurrentEnemyID)

	gs, _ = play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, 5, gs.PlayerHealth)
	assert.False(t, gs.IsGameOver)

	gs, entries = play(t, e, gs, act(action.Attack, ""))
	assert.Equal(t, []state.LogKind{state.LogCombat, state.LogEnemyTurn, state.LogError}, kinds(entries))
	assert.Equal(t, MsgDeath, entries[2].Text)
	assert.Equal(t, 0, gs.PlayerHealth, "health is clamped at 0")
	assert.True(t, gs.IsGameOver)

	// every later action collapses to the death message
	for _, a := range action.Types() {
		next, entries := play(t, e, gs, act(a, "bruto"))
		require.Len(t, entries, 1, "action %s", a)
		assert.Equal(t, state.LogEntry{ID: len(gs.Log), Kind: state.LogError, Text: MsgGameOver}, entries[0])
		assert.True(t, next.IsGameOver)
		assert.Equal(t, gs.World, next.World)
		assert.Equal(t, gs.PlayerHealth, next.PlayerHealth)
	}

	next, entries := e.ProcessCommand(context.Background(), "ayuda", gs)
	require.Len(t, entries, 1, "no echo once the game is over")
	assert.Equal(t, MsgGameOver, entries[0].Text)
	assert.True(t, next.IsGameOver)
}

func TestProcessCommand(t *testing.T) {
	e, _ := newTestEngine()
	gs, _ := e.NewGame(context.Background(), world.Default())

	next, entries := e.ProcessCommand(context.Background(), "coge el botiquín", gs)
	require.Len(t, entries, 2)
	assert.Equal(t, state.LogEntry{ID: 2, Kind: state.LogPlayer, Text: "coge el botiquín"}, entries[0])
	assert.Equal(t, state.LogEntry{ID: 3, Kind: state.LogError, Text: MsgOpenItFirst}, entries[1])
	require.NoError(t, next.CheckInvariants())

	next, entries = e.ProcessCommand(context.Background(), "abrir el botiquín", next)
	assert.Equal(t, state.LogInfo, entries[1].Kind)
	next, _ = e.ProcessCommand(context.Background(), "coger la venda", next)
	assert.Equal(t, []string{"venda"}, next.Inventory)

	next, entries = e.ProcessCommand(context.Background(), "cantar una canción", next)
	assert.Equal(t, []state.LogKind{state.LogPlayer, state.LogError}, kinds(entries))
	assert.Equal(t, MsgUnknown, entries[1].Text)
	assert.Len(t, next.Log, 10)
}

// fixedInterpreter always answers with the same action and records its input.
type fixedInterpreter struct {
	a   action.Action
	ctx action.Context
}

func (f *fixedInterpreter) Interpret(_ context.Context, _ string, c action.Context) action.Action {
	f.ctx = c
	return f.a
}

func TestProcessCommand_UsesInterpreter(t *testing.T) {
	interp := &fixedInterpreter{a: act(action.Goto, "afuera")}
	e := New(interp, narrative.NewStaticNarrator(), testLogger())
	gs, _ := e.NewGame(context.Background(), world.Default())

	next, _ := e.ProcessCommand(context.Background(), "sal de aquí", gs)
	assert.Equal(t, "desierto", next.CurrentLocationID)
	assert.Equal(t, "Cabina Estrellada", interp.ctx.LocationName)
	assert.Equal(t, []string{"afuera"}, interp.ctx.Exits)
	assert.Equal(t, []string{"Botiquín de Primeros Auxilios"}, interp.ctx.Items)
}

func TestNarratorFallback(t *testing.T) {
	n := &recordingNarrator{text: "  "}
	e := New(nil, n, testLogger())
	_, entries := e.NewGame(context.Background(), world.Default())
	for _, entry := range entries {
		assert.Equal(t, narrative.FallbackText, entry.Text)
	}
}

func TestFullPlaythrough(t *testing.T) {
	e := New(nil, nil, testLogger())
	gs, _ := e.NewGame(context.Background(), world.Default())

	commands := []string{
		"mira a tu alrededor",
		"abrir el botiquín",
		"coger la venda",
		"coger el botiquín",
		"ver mi inventario",
		"ir afuera",
		"norte",
		"coge la llave",
		"ve al este",
		"ataca al mutante",
		"usar la venda",
		"ataca al mutante",
		"ataca al mutante",
		"ataca al mutante",
		"ataca al mutante",
		"ataca al mutante",
		"ataca al mutante",
		"ataca al mutante",
		"coge la tubería",
		"equipar la tubería",
		"ver mi inventario",
		"ir al oeste",
	}
	for _, cmd := range commands {
		var entries []state.LogEntry
		gs, entries = e.ProcessCommand(context.Background(), cmd, gs)
		require.NotEmpty(t, entries, cmd)
		require.NoError(t, gs.CheckInvariants(), cmd)
		for _, en := range gs.World.Enemies {
			require.GreaterOrEqual(t, en.Health, 0)
			require.LessOrEqual(t, en.Health, en.MaxHealth)
		}
	}

	assert.False(t, gs.IsGameOver)
	assert.Equal(t, "oasis", gs.CurrentLocationID)
	assert.Equal(t, "tuberia_plomo", gs.EquippedWeapon)
	assert.ElementsMatch(t, []string{"botiquin", "llave_oxidada", "tuberia_plomo"}, gs.Inventory)
	// eight enemy strikes; the bandage only restored the first one
	assert.Equal(t, 30, gs.PlayerHealth)
}
