package state

// Status is a reduced view of a game for status bars and API clients.
type Status struct {
	GameID          string `json:"game_id"`
	Location        string `json:"location"`
	PlayerHealth    int    `json:"player_health"`
	MaxPlayerHealth int    `json:"max_player_health"`
	Weapon          string `json:"weapon,omitempty"`
	Enemy           string `json:"enemy,omitempty"`
	EnemyHealth     int    `json:"enemy_health,omitempty"`
	EnemyMaxHealth  int    `json:"enemy_max_health,omitempty"`
	IsGameOver      bool   `json:"is_game_over"`
}

func ToStatus(gs *GameState) Status {
	st := Status{
		GameID:          gs.ID.String(),
		PlayerHealth:    gs.PlayerHealth,
		MaxPlayerHealth: gs.MaxPlayerHealth,
		IsGameOver:      gs.IsGameOver,
	}
	if loc := gs.CurrentLocation(); loc != nil {
		st.Location = loc.Name
	}
	if w := gs.Weapon(); w != nil {
		st.Weapon = w.Name
	}
	if e := gs.CurrentEnemy(); e != nil {
		st.Enemy = e.Name
		st.EnemyHealth = e.Health
		st.EnemyMaxHealth = e.MaxHealth
	}
	return st
}
