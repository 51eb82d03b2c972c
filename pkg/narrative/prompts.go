package narrative

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/chat"
)

// SystemPrompt sets the narrator's voice for every LLM call.
const SystemPrompt = `Eres el Director de un juego de aventuras de texto post-apocalíptico llamado '%s'. El mundo fue devastado por una guerra nuclear que creó mutaciones. Tus descripciones deben ser cinematográficas, directas y viscerales, como si describieras una escena de una película de ciencia ficción post-apocalíptica. Céntrate en la acción y en lo que el jugador ve, oye y siente de forma tangible. Sé conciso pero impactante, en 2-4 frases. Responde siempre en español. Al describir un lugar, menciona las salidas visibles de forma natural en la descripción.`

const strikeInstructions = `Describe una escena de combate de forma vívida y visceral en una frase concisa.
- Céntrate en el impacto y la reacción. No menciones los puntos de vida o el número de daño.

Ejemplo (Jugador ataca):
- Prompt: Jugador ataca a Mutante con Tubería de plomo.
- Respuesta: Lanzas un arco brutal con la tubería de plomo, golpeando al mutante en el costado con un crujido húmedo que le hace tambalearse.

Ejemplo (Enemigo ataca):
- Prompt: Mutante ataca a Jugador con garras.
- Respuesta: El mutante se abalanza sobre ti, sus garras afiladas rasgan tu brazo y te arrancan un grito de dolor.`

// DefaultTitle is used in the system prompt when the world has no title.
const DefaultTitle = "Ecos Nucleares"

// Builder constructs the chat messages for one narration request.
type Builder struct {
	title string
	event *Event
}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{title: DefaultTitle}
}

// WithTitle sets the game title used in the system prompt.
func (b *Builder) WithTitle(title string) *Builder {
	if title != "" {
		b.title = title
	}
	return b
}

// WithEvent sets the event to narrate.
func (b *Builder) WithEvent(e Event) *Builder {
	b.event = &e
	return b
}

// Build returns the system and user messages.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.event == nil {
		return nil, fmt.Errorf("event is required")
	}
	prompt, err := EventPrompt(*b.event)
	if err != nil {
		return nil, err
	}
	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: fmt.Sprintf(SystemPrompt, b.title)},
		{Role: chat.ChatRoleUser, Content: prompt},
	}, nil
}

// EventPrompt renders the user prompt for an event.
func EventPrompt(e Event) (string, error) {
	switch e.Kind {
	case KindIntro:
		p := fmt.Sprintf("Escribe un párrafo de introducción cinematográfico para el juego '%s'.", orDefault(e.Title, DefaultTitle))
		if e.Intro != "" {
			p += " Punto de partida: " + e.Intro
		}
		return p, nil

	case KindLocation:
		return fmt.Sprintf("Describe cinematográficamente este lugar: %s. Detalles base: %s. Se ve: %s. Amenazas: %s. Hay salidas hacia: %s.",
			e.Name, e.Description, listOr(e.Items, "nada especial"), listOr(e.Enemies, "ninguna"), listOr(e.Exits, "ninguna parte")), nil

	case KindItem:
		p := fmt.Sprintf("El jugador examina un objeto: %s. Detalles base: %s.", e.Name, e.Description)
		if e.IsContainer {
			if e.IsOpen {
				p += fmt.Sprintf(" Está abierto. Dentro parece que hay: %s.", listOr(e.Contents, "nada"))
			} else {
				p += " Está cerrado."
			}
		}
		return p, nil

	case KindStrike:
		weapon := e.Weapon
		if weapon == "" {
			if e.ByPlayer {
				weapon = "sus puños"
			} else {
				weapon = "sus garras"
			}
		}
		return fmt.Sprintf("%s\n\nGenera la descripción para la acción actual.\n- Atacante: %s\n- Defensor: %s\n- Arma: %s",
			strikeInstructions, e.Attacker, e.Defender, weapon), nil
	}
	return "", fmt.Errorf("unknown event kind %q", e.Kind)
}

func listOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
