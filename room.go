package server

import (
	"math"
	"sync"
	"time"

	"ironsight/server/internal/combat"
	"ironsight/server/internal/weapons"
)

// BattleRoom is one match's authoritative state. Every mutation of the player
// map happens under the room's lock, so events within a room resolve strictly
// in arrival order while distinct rooms run in parallel.
type BattleRoom struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	players  map[string]*playerState
	sessions map[string]string // transport session id -> player id
}

func newBattleRoom(id string, now time.Time) *BattleRoom {
	return &BattleRoom{
		ID:        id,
		CreatedAt: now,
		players:   make(map[string]*playerState),
		sessions:  make(map[string]string),
	}
}

// Join admits a player and binds their transport session. A duplicate join
// for a player already present is a benign no-op returning the existing
// record; it never creates a second record.
func (r *BattleRoom) Join(sessionID, playerID string, spawnX, spawnY float64) (PlayerRecord, []PlayerRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[playerID]
	if !ok {
		state = newPlayerState(playerID, spawnX, spawnY)
		r.players[playerID] = state
	}
	r.sessions[sessionID] = playerID

	return state.PlayerRecord, r.rosterLocked()
}

// suspectField records one clamped or flagged value from a client update.
type suspectField struct {
	Field    string
	Reported float64
	Applied  float64
}

// UpdateState applies a client-reported transient state to the player's
// record. The wire contract is client-authoritative, but reported values are
// bounded: health never rises above the server-held value and never revives
// a dead record, ammo clamps to the magazine, and implausible position jumps
// are flagged. Returns the applied record, any suspect fields, and whether
// the player exists.
func (r *BattleRoom) UpdateState(reported UpdatePayload) (PlayerRecord, []suspectField, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[reported.ID]
	if !ok {
		return PlayerRecord{}, nil, false
	}

	var suspects []suspectField

	if delta := math.Hypot(reported.X-state.X, reported.Y-state.Y); delta > maxPositionDelta {
		suspects = append(suspects, suspectField{Field: "position", Reported: delta, Applied: delta})
	}
	state.X = reported.X
	state.Y = reported.Y
	state.Angle = reported.Angle

	if state.IsAlive {
		health := reported.Health
		if health > state.Health {
			suspects = append(suspects, suspectField{Field: "health", Reported: reported.Health, Applied: state.Health})
			health = state.Health
		}
		if health < 0 {
			health = 0
		}
		state.Health = health
		if state.Health <= 0 {
			state.IsAlive = false
		}
	} else if reported.Health > 0 {
		suspects = append(suspects, suspectField{Field: "health", Reported: reported.Health, Applied: 0})
	}

	ammo := reported.Ammo
	if ammo > playerMaxAmmo {
		suspects = append(suspects, suspectField{Field: "ammo", Reported: float64(reported.Ammo), Applied: playerMaxAmmo})
		ammo = playerMaxAmmo
	}
	if ammo < 0 {
		ammo = 0
	}
	state.Ammo = ammo

	state.syncToActor()
	return state.PlayerRecord, suspects, true
}

// ValidateShot checks a shot claim against the shooter's authoritative state
// and, when accepted, records the shot time for the fire-rate budget. The
// check and the bookkeeping share one critical section so two near
// simultaneous shots cannot both pass the cooldown.
func (r *BattleRoom) ValidateShot(playerID string, claim combat.ShotClaim, weapon weapons.Spec, now time.Time) (combat.Verdict, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.players[playerID]
	if !ok {
		return combat.Verdict{}, false
	}

	verdict := combat.ValidateShot(claim, combat.ShotContext{
		Position:     combat.Vec2{X: state.X, Y: state.Y},
		Weapon:       weapon,
		LastAccepted: state.lastShot,
		Now:          now,
	})
	if verdict.Valid {
		state.lastShot = now
	}
	return verdict, true
}

// HitOutcome reports what ApplyHit actually did.
type HitOutcome struct {
	Damage       float64
	Clamped      bool
	TargetHealth float64
	TargetKilled bool
	ScoreAward   int
}

// ApplyHit subtracts damage from the target and credits the attacker on a
// kill: kills+1, score += damage*10, target deaths+1. Reported damage is
// clamped to the weapon's per-round budget. Hits on dead or missing targets
// are dropped; a dead record never mutates again.
func (r *BattleRoom) ApplyHit(attackerID, targetID string, damage float64, weapon weapons.Spec) (HitOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.players[targetID]
	if !ok || !target.IsAlive {
		return HitOutcome{}, false
	}

	outcome := HitOutcome{Damage: damage}
	if limit := weapon.Damage * maxHitFactor; damage > limit {
		outcome.Damage = limit
		outcome.Clamped = true
	}
	if outcome.Damage < 0 {
		outcome.Damage = 0
	}

	target.Health = math.Max(0, target.Health-outcome.Damage)
	if target.Health <= 0 {
		target.IsAlive = false
		target.deaths++
		outcome.TargetKilled = true

		if attacker, ok := r.players[attackerID]; ok {
			attacker.kills++
			outcome.ScoreAward = int(math.Round(outcome.Damage)) * scorePerDamage
			attacker.score += outcome.ScoreAward
		}
	}
	target.syncToActor()

	outcome.TargetHealth = target.Health
	return outcome, true
}

// ResolveMelee runs one melee exchange through the combat resolver against
// the room's actor state and syncs the verdict back onto the records.
func (r *BattleRoom) ResolveMelee(resolver *combat.Resolver, attackerID, targetID string, kind combat.ActionType, effects []string) (combat.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attacker, ok := r.players[attackerID]
	if !ok || !attacker.IsAlive {
		return combat.Result{}, false
	}

	action := combat.Action{
		Type:     kind,
		Attacker: &attacker.actor,
		Effects:  effects,
	}

	var target *playerState
	if targetID != "" {
		target, ok = r.players[targetID]
		if !ok || !target.IsAlive {
			return combat.Result{}, false
		}
		action.Target = &target.actor
	}

	result := resolver.Resolve(action)

	attacker.syncFromActor()
	if target != nil {
		target.syncFromActor()
		if result.TargetKilled {
			target.deaths++
			attacker.kills++
			attacker.score += result.DamageDealt * scorePerDamage
		}
	}
	return result, true
}

// Settlement is the read-once tally handed to reward settlement. After it is
// taken the tallies are gone; they are match-scoped, not career stats.
type Settlement struct {
	PlayerID string
	Kills    int
	Score    int
	Empty    bool
}

// SettleAndRemove reads the player's final tallies and removes both the
// player record and the session mapping in one critical section. It is the
// single removal path for explicit end; Remove covers leave and disconnect.
func (r *BattleRoom) SettleAndRemove(sessionID string) (Settlement, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, ok := r.sessions[sessionID]
	if !ok {
		return Settlement{}, false
	}

	settlement := Settlement{PlayerID: playerID}
	if state, ok := r.players[playerID]; ok {
		settlement.Kills = state.kills
		settlement.Score = state.score
	}
	delete(r.players, playerID)
	delete(r.sessions, sessionID)
	settlement.Empty = len(r.sessions) == 0
	return settlement, true
}

// Remove drops the session and its player record without settlement. Used on
// leave and abrupt disconnect; reports the player id and whether the room is
// now empty.
func (r *BattleRoom) Remove(sessionID string) (string, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, ok := r.sessions[sessionID]
	if !ok {
		return "", false, len(r.sessions) == 0
	}
	delete(r.players, playerID)
	delete(r.sessions, sessionID)
	return playerID, true, len(r.sessions) == 0
}

// PlayerBySession resolves the authoritative player id for a transport
// session.
func (r *BattleRoom) PlayerBySession(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playerID, ok := r.sessions[sessionID]
	return playerID, ok
}

// Roster returns a snapshot of every player record in the room.
func (r *BattleRoom) Roster() []PlayerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

func (r *BattleRoom) rosterLocked() []PlayerRecord {
	roster := make([]PlayerRecord, 0, len(r.players))
	for _, state := range r.players {
		roster = append(roster, state.PlayerRecord)
	}
	return roster
}

// Sessions returns the transport sessions currently bound to the room,
// excluding the given one (pass "" to include everyone).
func (r *BattleRoom) Sessions(except string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := make([]string, 0, len(r.sessions))
	for sessionID := range r.sessions {
		if sessionID == except {
			continue
		}
		sessions = append(sessions, sessionID)
	}
	return sessions
}

// Occupancy reports the number of bound sessions.
func (r *BattleRoom) Occupancy() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
