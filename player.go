package server

import (
	"fmt"
	"time"

	"ironsight/server/internal/combat"
)

// PlayerRecord is the wire-visible combat state for one participant in a
// battle room. Field names match the client contract.
type PlayerRecord struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Health   float64 `json:"health"`
	Ammo     int     `json:"ammo"`
	IsAlive  bool    `json:"isAlive"`
}

// playerState is the room-owned record behind a PlayerRecord: match tallies,
// fire-rate bookkeeping, and melee combat state. All mutation happens under
// the owning room's lock.
type playerState struct {
	PlayerRecord

	kills  int
	deaths int
	score  int

	lastShot time.Time

	// actor carries the melee stats (stamina, armor, damage) and buffs. Its
	// health and alive flag mirror the record; the room syncs them after
	// every mutation.
	actor combat.Actor
}

func newPlayerState(playerID string, x, y float64) *playerState {
	return &playerState{
		PlayerRecord: PlayerRecord{
			ID:       playerID,
			Username: displayName(playerID),
			X:        x,
			Y:        y,
			Health:   playerMaxHealth,
			Ammo:     playerMaxAmmo,
			IsAlive:  true,
		},
		actor: combat.Actor{
			ID: playerID,
			Stats: combat.Stats{
				Health:  playerMaxHealth,
				Stamina: playerMaxStamina,
				Damage:  playerMeleeDamage,
			},
			Alive: true,
		},
	}
}

// syncFromActor copies resolver-mutated health back onto the record.
func (s *playerState) syncFromActor() {
	s.Health = s.actor.Stats.Health
	s.IsAlive = s.actor.Alive
}

// syncToActor pushes room-applied health onto the melee actor so a later
// melee exchange sees the post-gunfire state.
func (s *playerState) syncToActor() {
	s.actor.Stats.Health = s.Health
	s.actor.Alive = s.IsAlive
}

func displayName(playerID string) string {
	if len(playerID) > 8 {
		return fmt.Sprintf("Player_%s", playerID[:8])
	}
	return fmt.Sprintf("Player_%s", playerID)
}
