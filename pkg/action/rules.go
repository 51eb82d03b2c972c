package action

import (
	"context"
	"slices"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/textfilter"
)

// verbs maps normalized verbs (Spanish and English) to action types.
var verbs = map[string]Type{
	// Movement
	"ir": Goto, "ve": Goto, "vete": Goto, "voy": Goto, "anda": Goto, "andar": Goto,
	"camina": Goto, "caminar": Goto, "corre": Goto, "correr": Goto, "entra": Goto,
	"entrar": Goto, "sal": Goto, "salir": Goto, "dirigete": Goto, "avanza": Goto,
	"avanzar": Goto, "go": Goto, "walk": Goto, "run": Goto, "move": Goto, "head": Goto,

	// Examine
	"examina": Examine, "examinar": Examine, "mira": Examine, "mirar": Examine,
	"observa": Examine, "observar": Examine, "inspecciona": Examine,
	"inspeccionar": Examine, "ver": Examine, "revisa": Examine, "revisar": Examine,
	"registra": Examine, "registrar": Examine, "lee": Examine, "leer": Examine,
	"look": Examine, "l": Examine, "examine": Examine, "x": Examine, "inspect": Examine,
	"check": Examine, "search": Examine,

	// Take
	"coge": Take, "coger": Take, "toma": Take, "tomar": Take, "agarra": Take,
	"agarrar": Take, "recoge": Take, "recoger": Take, "pilla": Take, "pillar": Take,
	"guarda": Take, "guardar": Take, "take": Take, "get": Take, "grab": Take, "pick": Take,

	// Use
	"usa": Use, "usar": Use, "utiliza": Use, "utilizar": Use, "aplica": Use,
	"aplicar": Use, "bebe": Use, "beber": Use, "come": Use, "comer": Use,
	"use": Use, "apply": Use, "drink": Use, "eat": Use,

	// Open
	"abre": Open, "abrir": Open, "open": Open,

	// Inventory
	"inventario": Inventory, "inv": Inventory, "i": Inventory, "inventory": Inventory,

	// Help
	"ayuda": Help, "comandos": Help, "help": Help,

	// Attack
	"ataca": Attack, "atacar": Attack, "golpea": Attack, "golpear": Attack,
	"pega": Attack, "pegar": Attack, "lucha": Attack, "luchar": Attack,
	"pelea": Attack, "pelear": Attack, "mata": Attack, "matar": Attack,
	"attack": Attack, "hit": Attack, "fight": Attack, "kill": Attack, "strike": Attack,

	// Equip
	"equipa": Equip, "equipar": Equip, "equipate": Equip, "empuna": Equip,
	"empunar": Equip, "blande": Equip, "blandir": Equip, "sujeta": Equip,
	"equip": Equip, "wield": Equip,
}

// stopwords are skipped when looking for the target keyword.
var stopwords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "lo": true, "un": true,
	"una": true, "unos": true, "unas": true, "al": true, "a": true, "del": true,
	"de": true, "hacia": true, "hasta": true, "en": true, "con": true, "mi": true,
	"mis": true, "tu": true, "tus": true, "su": true, "sus": true, "me": true,
	"the": true, "an": true, "to": true, "at": true, "on": true, "with": true,
	"my": true, "into": true, "toward": true, "towards": true, "up": true,
}

// demonstratives are skipped for everything but movement, where "este"
// is a direction.
var demonstratives = map[string]bool{
	"este": true, "esta": true, "ese": true, "esa": true, "aquel": true,
	"aquella": true, "this": true, "that": true,
}

// bareDirections are accepted as movement without a verb.
var bareDirections = map[string]bool{
	"norte": true, "sur": true, "este": true, "oeste": true, "afuera": true,
	"fuera": true, "adentro": true, "dentro": true, "arriba": true, "abajo": true,
	"north": true, "south": true, "east": true, "west": true, "out": true,
}

// RuleInterpreter classifies commands with a fixed verb table. It is
// deterministic and needs no network access.
type RuleInterpreter struct{}

// NewRuleInterpreter returns a RuleInterpreter.
func NewRuleInterpreter() *RuleInterpreter {
	return &RuleInterpreter{}
}

// Interpret implements Interpreter.
func (RuleInterpreter) Interpret(_ context.Context, raw string, c Context) Action {
	words := strings.Fields(textfilter.Normalize(raw))
	if len(words) == 0 {
		return Action{Type: Unknown, Target: raw}
	}

	// "ver mi inventario" and friends
	if slices.ContainsFunc(words, func(w string) bool { return verbs[w] == Inventory }) {
		return Action{Type: Inventory}
	}

	verb, rest := words[0], words[1:]
	t, ok := verbs[verb]
	if !ok {
		if bareDirections[verb] || slices.Contains(c.Exits, verb) {
			return Action{Type: Goto, Target: verb}
		}
		return Action{Type: Unknown, Target: raw}
	}

	switch t {
	case Help, Inventory:
		return Action{Type: t}
	}
	return Action{Type: t, Target: firstKeyword(rest, t != Goto)}
}

// firstKeyword returns the first word that is not a stopword.
func firstKeyword(words []string, skipDemonstratives bool) string {
	for _, w := range words {
		if stopwords[w] || (skipDemonstratives && demonstratives[w]) {
			continue
		}
		return w
	}
	return ""
}
