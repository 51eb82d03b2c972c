package narrative

import (
	"context"
	"fmt"
	"strings"
)

// StaticNarrator builds narration from the authored text of the world. It
// is deterministic and makes no external calls.
type StaticNarrator struct{}

// NewStaticNarrator returns a StaticNarrator.
func NewStaticNarrator() *StaticNarrator {
	return &StaticNarrator{}
}

// Narrate implements Generator.
func (StaticNarrator) Narrate(_ context.Context, e Event) string {
	var text string
	switch e.Kind {
	case KindIntro:
		text = e.Intro
		if text == "" && e.Title != "" {
			text = fmt.Sprintf("Comienza %s.", e.Title)
		}
	case KindLocation:
		text = describeLocation(e)
	case KindItem:
		text = describeItem(e)
	case KindStrike:
		text = describeStrike(e)
	}
	if strings.TrimSpace(text) == "" {
		return FallbackText
	}
	return text
}

func describeLocation(e Event) string {
	var parts []string
	if e.Name != "" {
		parts = append(parts, e.Name+".")
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	if len(e.Items) > 0 {
		parts = append(parts, fmt.Sprintf("Ves: %s.", strings.Join(e.Items, ", ")))
	}
	if len(e.Enemies) > 0 {
		parts = append(parts, fmt.Sprintf("Amenazas: %s.", strings.Join(e.Enemies, ", ")))
	}
	if len(e.Exits) > 0 {
		parts = append(parts, fmt.Sprintf("Salidas: %s.", strings.Join(e.Exits, ", ")))
	}
	return strings.Join(parts, " ")
}

func describeItem(e Event) string {
	text := e.Description
	if text == "" {
		text = e.Name + "."
	}
	if !e.IsContainer {
		return text
	}
	if !e.IsOpen {
		return text + " Está cerrado."
	}
	if len(e.Contents) == 0 {
		return text + " Está abierto y vacío."
	}
	return fmt.Sprintf("%s Está abierto. Dentro hay: %s.", text, strings.Join(e.Contents, ", "))
}

func describeStrike(e Event) string {
	if e.ByPlayer {
		if e.Weapon == "" {
			return fmt.Sprintf("Golpeas a %s con tus puños.", e.Defender)
		}
		return fmt.Sprintf("Golpeas a %s con %s.", e.Defender, e.Weapon)
	}
	weapon := e.Weapon
	if weapon == "" {
		weapon = "sus garras"
	}
	return fmt.Sprintf("%s te ataca con %s.", e.Attacker, weapon)
}
