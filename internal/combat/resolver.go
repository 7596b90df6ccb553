// Package combat contains the pure combat leaves: the action resolver that
// turns a declared melee exchange into a damage verdict, and the shot
// validator that judges whether a claimed shot is physically plausible.
// Neither holds state across calls beyond the actor records passed in.
package combat

import (
	"math"
	"math/rand"
)

// ActionType discriminates the melee exchange variants.
type ActionType string

const (
	ActionAttack      ActionType = "attack"
	ActionPowerAttack ActionType = "power-attack"
	ActionDefend      ActionType = "defend"
	ActionRiposte     ActionType = "riposte"
)

// Stamina costs per action when the caller does not override them.
const (
	AttackStaminaCost      = 5.0
	PowerAttackStaminaCost = 20.0
	DefendStaminaCost      = 15.0
	RiposteStaminaCost     = 25.0
)

const (
	PowerAttackMultiplier = 1.5
	PowerAttackAccuracy   = 0.85
	DefaultAccuracy       = 0.9

	DefendArmorBoost    = 30.0
	DefendDurationTurns = 5

	RiposteChance       = 0.3
	RiposteDamageFactor = 0.5

	stunDamageBonus = 2.0
	bleedDamage     = 2.0
)

// Stats are the mutable combat numbers on an actor. The resolver is the only
// code permitted to mutate them during a Resolve call.
type Stats struct {
	Health  float64
	Stamina float64
	Armor   float64
	Damage  float64
}

// GuardBuff is the timed armor buff recorded by a defend action.
type GuardBuff struct {
	Amount         float64
	RemainingTurns int
}

// RiposteState is the one-turn armed counter recorded by a riposte action.
// It is consumed on the next incoming attack regardless of the roll outcome.
type RiposteState struct {
	Chance       float64
	DamageFactor float64
}

// Actor is the combat view of a participant. The caller owns the record;
// rooms hand their player records to the resolver one exchange at a time.
type Actor struct {
	ID      string
	Stats   Stats
	Alive   bool
	Stunned bool
	Guard   *GuardBuff
	Riposte *RiposteState
}

// Action is one declared melee exchange. Nil override pointers fall back to
// the per-type defaults.
type Action struct {
	Type        ActionType
	Attacker    *Actor
	Target      *Actor
	BaseDamage  *float64
	StaminaCost *float64
	Accuracy    *float64
	Effects     []string
}

// Result is the verdict returned to the caller.
type Result struct {
	Success        bool     `json:"success"`
	Hit            bool     `json:"hit"`
	DamageDealt    int      `json:"damageDealt"`
	TargetKilled   bool     `json:"targetKilled"`
	Message        string   `json:"message,omitempty"`
	AppliedEffects []string `json:"appliedEffects,omitempty"`
}

// Resolver resolves combat actions. The roll source is injected so tests can
// force hits, misses, and riposte triggers deterministically.
type Resolver struct {
	roll func() float64
}

// NewResolver constructs a resolver drawing uniform rolls from the provided
// source. A nil source falls back to the shared math/rand generator.
func NewResolver(roll func() float64) *Resolver {
	if roll == nil {
		roll = rand.Float64
	}
	return &Resolver{roll: roll}
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Resolve applies one combat action to the attacker and (for attacks) target
// records in place and reports the outcome.
//
// Rule order: stamina gate, cost deduction, defend/riposte short-circuits,
// accuracy roll, armor-reduced damage, armor degradation, status effects,
// then the target's armed riposte.
func (r *Resolver) Resolve(action Action) Result {
	attacker := action.Attacker
	if attacker == nil {
		return failure("No attacker")
	}

	cost := staminaCost(action)
	if attacker.Stats.Stamina < cost {
		return failure("Insufficient stamina")
	}
	attacker.Stats.Stamina = math.Max(0, attacker.Stats.Stamina-cost)

	switch action.Type {
	case ActionDefend:
		attacker.Stats.Armor += DefendArmorBoost
		attacker.Guard = &GuardBuff{Amount: DefendArmorBoost, RemainingTurns: DefendDurationTurns}
		return Result{
			Success:        true,
			Message:        "Defend applied",
			AppliedEffects: []string{"defend"},
		}
	case ActionRiposte:
		attacker.Riposte = &RiposteState{Chance: RiposteChance, DamageFactor: RiposteDamageFactor}
		return Result{
			Success:        true,
			Message:        "Riposte ready",
			AppliedEffects: []string{"riposte"},
		}
	}

	target := action.Target
	if target == nil {
		return failure("No target")
	}

	accuracy := DefaultAccuracy
	if action.Type == ActionPowerAttack {
		accuracy = PowerAttackAccuracy
	}
	if action.Accuracy != nil {
		accuracy = clamp01(*action.Accuracy)
	}
	if r.roll() > accuracy {
		return Result{Success: true, Hit: false, Message: "Missed attack"}
	}

	base := attacker.Stats.Damage
	if action.BaseDamage != nil {
		base = *action.BaseDamage
	}
	final := base
	if action.Type == ActionPowerAttack {
		final *= PowerAttackMultiplier
	}
	if hasEffect(action.Effects, "stun") {
		final += stunDamageBonus
	}

	// Armor reduction is linear and always lets at least one point through.
	dealt := int(math.Max(1, math.Round(final-target.Stats.Armor*0.5)))

	applyDamage(target, float64(dealt))
	target.Stats.Armor = math.Max(0, target.Stats.Armor-math.Round(float64(dealt)*0.1))

	applied := make([]string, 0, len(action.Effects))
	for _, effect := range action.Effects {
		applied = append(applied, effect)
		switch effect {
		case "bleed":
			applyDamage(target, bleedDamage)
		case "stun":
			target.Stunned = true
		}
	}

	// The armed riposte, if any, belongs to the defender and strikes back
	// with the defender's own damage stat. It is consumed even on a failed
	// roll.
	if armed := target.Riposte; armed != nil {
		if r.roll() <= armed.Chance {
			counter := math.Max(1, math.Round(armed.DamageFactor*target.Stats.Damage))
			applyDamage(attacker, counter)
		}
		target.Riposte = nil
	}

	return Result{
		Success:        true,
		Hit:            true,
		DamageDealt:    dealt,
		TargetKilled:   target.Stats.Health <= 0,
		Message:        "Hit",
		AppliedEffects: applied,
	}
}

func staminaCost(action Action) float64 {
	if action.StaminaCost != nil && *action.StaminaCost > 0 {
		return *action.StaminaCost
	}
	switch action.Type {
	case ActionAttack:
		return AttackStaminaCost
	case ActionPowerAttack:
		return PowerAttackStaminaCost
	case ActionDefend:
		return DefendStaminaCost
	case ActionRiposte:
		return RiposteStaminaCost
	default:
		return 0
	}
}

func applyDamage(actor *Actor, amount float64) {
	actor.Stats.Health = math.Max(0, actor.Stats.Health-amount)
	if actor.Stats.Health <= 0 {
		actor.Alive = false
	}
}

func hasEffect(effects []string, name string) bool {
	for _, effect := range effects {
		if effect == name {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
