package action

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt instructs an LLM to act as the command parser.
const SystemPrompt = `Eres un analizador de comandos para un juego de aventuras de texto. Tu función es interpretar el comando del usuario y convertirlo en un objeto JSON estructurado. Responde únicamente con JSON.`

const promptExamples = `Ejemplos:
- Comando: "ataca al mutante" -> { "action": "ATTACK", "target": "mutante" }
- Comando: "equípate la tubería" -> { "action": "EQUIP", "target": "tuberia" }
- Comando: "coge la llave" -> { "action": "TAKE", "target": "llave" }
- Comando: "mira a tu alrededor" -> { "action": "EXAMINE", "target": null }`

// BuildPrompt returns the user prompt asking an LLM to classify a command.
func BuildPrompt(raw string, c Context) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, fmt.Sprintf("%q", t))
	}

	var sb strings.Builder
	sb.WriteString("Acciones posibles: " + strings.Join(names, ", ") + ".\n\n")
	sb.WriteString("Contexto del juego:\n")
	sb.WriteString(fmt.Sprintf("- Ubicación actual: %q\n", c.LocationName))
	sb.WriteString("- Salidas disponibles: " + jsonList(c.Exits) + "\n")
	sb.WriteString("- Objetos visibles (en la habitación o en el inventario): " + jsonList(c.Items) + "\n")
	sb.WriteString("- Enemigos visibles: " + jsonList(c.Enemies) + "\n\n")
	sb.WriteString(fmt.Sprintf("Comando del usuario: %q\n\n", raw))
	sb.WriteString(`Instrucciones:
1. Determina la acción principal.
2. Identifica el objetivo (target). Debe coincidir con un objeto, enemigo o salida. Normalízalo a una palabra clave (ej. "botiquin", "norte", "mutante").
3. Si la acción no es clara, usa "UNKNOWN".
4. Responde únicamente con un objeto JSON con "action" y "target".

`)
	sb.WriteString(promptExamples)
	return sb.String()
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
