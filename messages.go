package server

// Inbound event names.
const (
	EventJoin   = "join"
	EventUpdate = "update"
	EventShot   = "shot"
	EventHit    = "hit"
	EventMelee  = "melee"
	EventEnd    = "end"
)

// Outbound event names.
const (
	EventPlayerJoined = "player_joined"
	EventStart        = "start"
	EventPlayerUpdate = "player_update"
	EventReward       = "reward"
)

// JoinPayload asks for admission to a battle. Difficulty is advisory client
// state, carried through untouched.
type JoinPayload struct {
	PlayerID   string `json:"playerId"`
	Difficulty string `json:"difficulty,omitempty"`
}

// StartPayload is the joining client's initial sync.
type StartPayload struct {
	RoomID  string         `json:"roomId"`
	Players []PlayerRecord `json:"players"`
}

// UpdatePayload is the client-reported transient state. The room clamps
// health and ammo to server-known bounds before applying; see BattleRoom.
type UpdatePayload struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	Health float64 `json:"health"`
	Ammo   int     `json:"ammo"`
}

// Position is a 2D point on the wire.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trajectory is the claimed shot line.
type Trajectory struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// ShotPayload is a client-reported firing event. Weapon is optional; unknown
// or missing names fall back to the default rifle budget during validation.
type ShotPayload struct {
	PlayerID   string     `json:"playerId"`
	Weapon     string     `json:"weapon,omitempty"`
	Position   Position   `json:"position"`
	Trajectory Trajectory `json:"trajectory"`
}

// HitPayload is a client-reported damage event.
type HitPayload struct {
	PlayerID string  `json:"playerId"`
	TargetID string  `json:"targetId"`
	Weapon   string  `json:"weapon"`
	Damage   float64 `json:"damage"`
}

// MeleePayload requests a melee exchange resolved server-side. Kind is one of
// attack, power-attack, defend, riposte; the target is required only for the
// attack variants.
type MeleePayload struct {
	PlayerID string   `json:"playerId"`
	TargetID string   `json:"targetId,omitempty"`
	Kind     string   `json:"kind"`
	Effects  []string `json:"effects,omitempty"`
}

// EndPayload closes out a player's battle. Score and kills are advisory; the
// settlement uses the room's own tallies.
type EndPayload struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Kills    int    `json:"kills"`
}

// RewardPayload notifies the ending client of their token award.
type RewardPayload struct {
	TokensEarned int64 `json:"tokensEarned"`
}

// MeleeResultPayload is the broadcast verdict of a melee exchange.
type MeleeResultPayload struct {
	PlayerID string `json:"playerId"`
	TargetID string `json:"targetId,omitempty"`
	Kind     string `json:"kind"`

	Success        bool     `json:"success"`
	Hit            bool     `json:"hit"`
	DamageDealt    int      `json:"damageDealt"`
	TargetKilled   bool     `json:"targetKilled"`
	Message        string   `json:"message,omitempty"`
	AppliedEffects []string `json:"appliedEffects,omitempty"`
}
