package engine

// Player-facing messages. Formats take item or enemy display names.
const (
	MsgGameOver = "Estás muerto. El páramo reclama tus restos."
	MsgDeath    = "La oscuridad te envuelve. Has sucumbido a tus heridas."
	MsgUnknown  = `El eco de tu pensamiento se pierde en el viento. Intenta expresarlo de otra manera. (Escribe "ayuda" para ver ejemplos).`
	MsgHelp     = `Comandos de ejemplo: "ir hacia el norte", "examinar el esqueleto", "coger la llave", "abrir el botiquín", "usar la venda", "ver mi inventario", "atacar al mutante", "equipar la tubería".`

	MsgCannotFlee = "No puedes escapar tan fácilmente mientras luchas."
	MsgNoExit     = "No hay una salida en esa dirección."
	MsgWhereTo    = "¿Adónde quieres ir?"

	MsgNotSeen       = `No ves ningún "%s" por aquí.`
	MsgEnemyExamined = "%s Parece hostil."

	MsgTooRisky     = "Demasiado arriesgado para saquear ahora mismo."
	MsgWhatTake     = "¿Qué quieres tomar?"
	MsgCannotTake   = "No puedes tomar eso. O no está aquí."
	MsgOpenItFirst  = "No puedes tomar eso. Tendrás que abrirlo primero."
	MsgTaken        = "Tomas el objeto: %s."
	MsgWhatOpen     = "¿Qué quieres abrir?"
	MsgNothingOpen  = `No ves ningún "%s" para abrir.`
	MsgCannotOpen   = "No puedes abrir eso."
	MsgAlreadyOpen  = "%s ya está abierto."
	MsgOpened       = "Abres %s. Dentro encuentras: %s. Ahora están en el suelo."
	MsgOpenedEmpty  = "Abres %s, pero está vacío."
	MsgWhatUse      = "¿Qué quieres usar?"
	MsgNotCarried   = `No tienes "%s" en tu inventario.`
	MsgHealed       = "Usas %s. Sientes cómo tus heridas se cierran un poco. Tu salud ha mejorado."
	MsgCannotUse    = "No sabes cómo usar %s de esa manera."
	MsgWhatEquip    = "¿Qué quieres equipar?"
	MsgEquipped     = "Equipas: %s."
	MsgCannotEquip  = "No puedes equipar %s."
	MsgNothingToHit = "No hay nada que atacar aquí."
	MsgVictory      = "Has derrotado a %s. El peligro ha pasado, por ahora."
	MsgLoot         = "%s ha soltado: %s."
	MsgEnemyAppears = "%s se lanza hacia ti."

	MsgEmptyInventory = "No llevas nada encima. Tus bolsillos están vacíos."
	MsgInventory      = "Llevas lo siguiente:\n%s"
	MsgEquippedTag    = " (Equipado)"
)

// surroundingsKeyword asks EXAMINE for the whole location.
const surroundingsKeyword = "alrededor"

// playerName is how combat narration refers to the player.
const playerName = "Jugador"
