package combat

import (
	"math"
	"testing"
)

func fixedRoll(values ...float64) func() float64 {
	index := 0
	return func() float64 {
		if index >= len(values) {
			return values[len(values)-1]
		}
		value := values[index]
		index++
		return value
	}
}

func floatPtr(v float64) *float64 { return &v }

func newActor(id string, stats Stats) *Actor {
	return &Actor{ID: id, Stats: stats, Alive: true}
}

func TestResolveAttackAppliesArmorReducedDamage(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Armor: 10, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	if !result.Success || !result.Hit {
		t.Fatalf("expected successful hit, got %+v", result)
	}
	if result.DamageDealt != 25 {
		t.Fatalf("expected 25 damage (30 - 10*0.5), got %d", result.DamageDealt)
	}
	if target.Stats.Health != 75 {
		t.Fatalf("expected target health 75, got %v", target.Stats.Health)
	}
	if attacker.Stats.Stamina != 45 {
		t.Fatalf("expected attack to cost 5 stamina, got %v remaining", attacker.Stats.Stamina)
	}
	if result.TargetKilled {
		t.Fatalf("target should survive 25 damage at 100 health")
	}
}

func TestResolvePowerAttackMultipliesBaseDamage(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 20})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Armor: 5, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionPowerAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	// round(20*1.5 - 5*0.5) = round(27.5) = 28
	if result.DamageDealt != 28 {
		t.Fatalf("expected 28 damage, got %d", result.DamageDealt)
	}
	if attacker.Stats.Stamina != 30 {
		t.Fatalf("expected power attack to cost 20 stamina, got %v remaining", attacker.Stats.Stamina)
	}
}

func TestResolveArmorAlwaysLetsOneDamageThrough(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 5})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Armor: 200, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	if result.DamageDealt != 1 {
		t.Fatalf("expected armor floor of 1 damage, got %d", result.DamageDealt)
	}
	if target.Stats.Health != 99 {
		t.Fatalf("expected target health 99, got %v", target.Stats.Health)
	}
}

func TestResolveMissLeavesTargetUntouched(t *testing.T) {
	resolver := NewResolver(fixedRoll(0.99))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Armor: 10, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(0.1),
	})

	if !result.Success {
		t.Fatalf("a miss is still a successful action, got %+v", result)
	}
	if result.Hit || result.DamageDealt != 0 {
		t.Fatalf("expected clean miss, got %+v", result)
	}
	if result.Message != "Missed attack" {
		t.Fatalf("expected 'Missed attack', got %q", result.Message)
	}
	if target.Stats.Health != 100 || target.Stats.Armor != 10 {
		t.Fatalf("miss must not mutate target, health=%v armor=%v", target.Stats.Health, target.Stats.Armor)
	}
	if attacker.Stats.Stamina != 45 {
		t.Fatalf("stamina is spent even on a miss, got %v", attacker.Stats.Stamina)
	}
}

func TestResolveStaminaGateBlocksWithoutMutation(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 3, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 10})

	result := resolver.Resolve(Action{Type: ActionAttack, Attacker: attacker, Target: target})

	if result.Success {
		t.Fatalf("expected stamina gate to fail the action")
	}
	if result.Message != "Insufficient stamina" {
		t.Fatalf("expected 'Insufficient stamina', got %q", result.Message)
	}
	if attacker.Stats.Stamina != 3 {
		t.Fatalf("failed gate must not spend stamina, got %v", attacker.Stats.Stamina)
	}
	if target.Stats.Health != 100 {
		t.Fatalf("failed gate must not touch the target, got %v", target.Stats.Health)
	}
}

func TestResolveStaminaNonIncreasingAcrossActions(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 12, Damage: 10})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 10})

	previous := attacker.Stats.Stamina
	for i := 0; i < 3; i++ {
		result := resolver.Resolve(Action{
			Type:     ActionAttack,
			Attacker: attacker,
			Target:   target,
			Accuracy: floatPtr(1.0),
		})
		if attacker.Stats.Stamina > previous {
			t.Fatalf("stamina increased from %v to %v", previous, attacker.Stats.Stamina)
		}
		if i < 2 && !result.Success {
			t.Fatalf("expected action %d to pass the gate with %v stamina", i, previous)
		}
		if i == 2 && result.Success {
			t.Fatalf("expected third attack to fail with %v stamina", previous)
		}
		previous = attacker.Stats.Stamina
	}
}

func TestResolveAttackWithoutTargetFails(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})

	result := resolver.Resolve(Action{Type: ActionAttack, Attacker: attacker})

	if result.Success {
		t.Fatalf("expected attack without target to fail")
	}
	if result.Message != "No target" {
		t.Fatalf("expected 'No target', got %q", result.Message)
	}
}

func TestResolveDefendBoostsArmorWithoutDamage(t *testing.T) {
	resolver := NewResolver(fixedRoll(0.99))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Armor: 10, Damage: 30})

	result := resolver.Resolve(Action{Type: ActionDefend, Attacker: attacker})

	if !result.Success || result.Hit || result.DamageDealt != 0 {
		t.Fatalf("defend must succeed without dealing damage, got %+v", result)
	}
	if attacker.Stats.Armor != 10+DefendArmorBoost {
		t.Fatalf("expected armor %v, got %v", 10+DefendArmorBoost, attacker.Stats.Armor)
	}
	if attacker.Guard == nil || attacker.Guard.RemainingTurns != DefendDurationTurns {
		t.Fatalf("expected guard buff with %d turns, got %+v", DefendDurationTurns, attacker.Guard)
	}
	if attacker.Stats.Stamina != 50-DefendStaminaCost {
		t.Fatalf("expected defend to cost %v stamina", DefendStaminaCost)
	}
}

func TestResolveRiposteArmsCounterWithoutDamage(t *testing.T) {
	resolver := NewResolver(fixedRoll(0.99))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})

	result := resolver.Resolve(Action{Type: ActionRiposte, Attacker: attacker})

	if !result.Success || result.Hit {
		t.Fatalf("riposte arming must succeed without an accuracy roll, got %+v", result)
	}
	if attacker.Riposte == nil {
		t.Fatalf("expected riposte state to be armed")
	}
	if attacker.Riposte.Chance != RiposteChance || attacker.Riposte.DamageFactor != RiposteDamageFactor {
		t.Fatalf("unexpected riposte state %+v", attacker.Riposte)
	}
}

func TestResolveRiposteCountersWithDefenderDamageStat(t *testing.T) {
	// First roll lands the attack, second roll triggers the riposte.
	resolver := NewResolver(fixedRoll(0, 0.1))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 40})
	target.Riposte = &RiposteState{Chance: RiposteChance, DamageFactor: RiposteDamageFactor}

	resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	// Counter damage uses the *defender's* damage stat: round(0.5 * 40) = 20.
	if attacker.Stats.Health != 80 {
		t.Fatalf("expected attacker health 80 after counter, got %v", attacker.Stats.Health)
	}
	if target.Riposte != nil {
		t.Fatalf("riposte must be consumed after triggering")
	}
}

func TestResolveRiposteConsumedOnFailedRoll(t *testing.T) {
	// First roll lands the attack, second roll misses the riposte chance.
	resolver := NewResolver(fixedRoll(0, 0.99))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 40})
	target.Riposte = &RiposteState{Chance: RiposteChance, DamageFactor: RiposteDamageFactor}

	resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	if attacker.Stats.Health != 100 {
		t.Fatalf("failed riposte roll must not damage the attacker, got %v", attacker.Stats.Health)
	}
	if target.Riposte != nil {
		t.Fatalf("riposte must be consumed even when the roll fails")
	}

	// A second attack without re-arming must not trigger a counter.
	resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})
	if attacker.Stats.Health != 100 {
		t.Fatalf("consumed riposte fired again, attacker health %v", attacker.Stats.Health)
	}
}

func TestResolveStunAddsBonusDamageAndFlagsTarget(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 10})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
		Effects:  []string{"stun"},
	})

	if result.DamageDealt != 12 {
		t.Fatalf("expected 10+2 stun damage, got %d", result.DamageDealt)
	}
	if !target.Stunned {
		t.Fatalf("expected target to be stunned")
	}
	if len(result.AppliedEffects) != 1 || result.AppliedEffects[0] != "stun" {
		t.Fatalf("expected applied effects [stun], got %v", result.AppliedEffects)
	}
}

func TestResolveBleedSubtractsFlatHealthAndRechecksDeath(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 10})
	target := newActor("b", Stats{Health: 11, Stamina: 50, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
		Effects:  []string{"bleed"},
	})

	// 10 from the hit leaves 1 health, bleed's flat 2 finishes the target.
	if target.Stats.Health != 0 {
		t.Fatalf("expected target health 0, got %v", target.Stats.Health)
	}
	if target.Alive {
		t.Fatalf("expected bleed to kill the target")
	}
	if !result.TargetKilled {
		t.Fatalf("expected TargetKilled to reflect the bleed death")
	}
}

func TestResolveKillMarksTargetNotAlive(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 50})
	target := newActor("b", Stats{Health: 20, Stamina: 50, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	if !result.TargetKilled {
		t.Fatalf("expected kill, got %+v", result)
	}
	if target.Alive {
		t.Fatalf("expected target marked not alive")
	}
	if target.Stats.Health != 0 {
		t.Fatalf("health must clamp at 0, got %v", target.Stats.Health)
	}
}

func TestResolveArmorDegradesUnderFire(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Armor: 10, Damage: 10})

	result := resolver.Resolve(Action{
		Type:     ActionAttack,
		Attacker: attacker,
		Target:   target,
		Accuracy: floatPtr(1.0),
	})

	expected := 10 - math.Round(float64(result.DamageDealt)*0.1)
	if target.Stats.Armor != expected {
		t.Fatalf("expected armor %v after degradation, got %v", expected, target.Stats.Armor)
	}
}

func TestResolveBaseDamageAndCostOverrides(t *testing.T) {
	resolver := NewResolver(fixedRoll(0))
	attacker := newActor("a", Stats{Health: 100, Stamina: 50, Damage: 30})
	target := newActor("b", Stats{Health: 100, Stamina: 50, Damage: 10})

	result := resolver.Resolve(Action{
		Type:        ActionAttack,
		Attacker:    attacker,
		Target:      target,
		BaseDamage:  floatPtr(7),
		StaminaCost: floatPtr(9),
		Accuracy:    floatPtr(1.0),
	})

	if result.DamageDealt != 7 {
		t.Fatalf("expected override damage 7, got %d", result.DamageDealt)
	}
	if attacker.Stats.Stamina != 41 {
		t.Fatalf("expected override cost 9, stamina %v", attacker.Stats.Stamina)
	}
}
