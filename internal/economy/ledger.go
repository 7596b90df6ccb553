// Package economy defines the external token-ledger interface and the reward
// formula applied at battle settlement.
package economy

import (
	"context"
	"fmt"
)

// Ledger credits battle rewards to player accounts. Implementations live
// outside the battle core; the sqlite subpackage provides the stock one.
// Failures are transient from the core's point of view: settlement logs them
// and moves on, it never retries or rolls back room cleanup.
type Ledger interface {
	CreditPlayer(ctx context.Context, playerID string, amount int64, reason string) error
}

// NopLedger accepts every credit and records nothing.
type NopLedger struct{}

func (NopLedger) CreditPlayer(context.Context, string, int64, string) error { return nil }

// ComputeReward converts end-of-battle tallies into a token award:
// floor(kills*50 + score/10). Tallies are never negative, so integer
// division is the floor.
func ComputeReward(kills, score int) int64 {
	if kills < 0 {
		kills = 0
	}
	if score < 0 {
		score = 0
	}
	return int64(kills)*50 + int64(score)/10
}

// RewardReason renders the ledger audit string for a settlement.
func RewardReason(kills, score int) string {
	return fmt.Sprintf("Battle victory: %d kills, %d score", kills, score)
}
