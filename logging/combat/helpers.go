// Package combat publishes combat-domain log events.
package combat

import (
	"context"

	"ironsight/server/logging"
)

const (
	// EventHitApplied is emitted whenever damage lands on a player.
	EventHitApplied logging.EventType = "combat.hit_applied"
	// EventPlayerKilled is emitted when a hit drops a player to zero health.
	EventPlayerKilled logging.EventType = "combat.player_killed"
	// EventShotRejected is emitted when the shot validator flags a claim.
	EventShotRejected logging.EventType = "combat.shot_rejected"
	// EventMeleeResolved is emitted for every resolved melee exchange.
	EventMeleeResolved logging.EventType = "combat.melee_resolved"
)

// HitAppliedPayload describes damage applied to a target.
type HitAppliedPayload struct {
	Weapon    string  `json:"weapon"`
	Damage    int     `json:"damage"`
	Clamped   bool    `json:"clamped,omitempty"`
	NewHealth float64 `json:"newHealth"`
}

// PlayerKilledPayload describes a kill credit.
type PlayerKilledPayload struct {
	Weapon     string `json:"weapon"`
	ScoreAward int    `json:"scoreAward"`
}

// ShotRejectedPayload carries the validator's reason.
type ShotRejectedPayload struct {
	Weapon string `json:"weapon"`
	Reason string `json:"reason"`
}

// MeleeResolvedPayload summarizes a resolver verdict.
type MeleeResolvedPayload struct {
	Kind           string   `json:"kind"`
	Hit            bool     `json:"hit"`
	Damage         int      `json:"damage"`
	TargetKilled   bool     `json:"targetKilled,omitempty"`
	AppliedEffects []string `json:"appliedEffects,omitempty"`
}

// HitApplied publishes a hit event.
func HitApplied(ctx context.Context, pub logging.Publisher, room string, attacker, target logging.EntityRef, payload HitAppliedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHitApplied,
		Room:     room,
		Actor:    attacker,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// PlayerKilled publishes a kill event.
func PlayerKilled(ctx context.Context, pub logging.Publisher, room string, attacker, victim logging.EntityRef, payload PlayerKilledPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerKilled,
		Room:     room,
		Actor:    attacker,
		Targets:  []logging.EntityRef{victim},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// ShotRejected publishes an advisory rejection; the shot is still rendered.
func ShotRejected(ctx context.Context, pub logging.Publisher, room string, shooter logging.EntityRef, payload ShotRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventShotRejected,
		Room:     room,
		Actor:    shooter,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// MeleeResolved publishes a resolver verdict.
func MeleeResolved(ctx context.Context, pub logging.Publisher, room string, attacker logging.EntityRef, targets []logging.EntityRef, payload MeleeResolvedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMeleeResolved,
		Room:     room,
		Actor:    attacker,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
