// Package economy publishes reward-settlement log events.
package economy

import (
	"context"

	"ironsight/server/logging"
)

const (
	// EventRewardGranted is emitted when the ledger accepts a battle reward.
	EventRewardGranted logging.EventType = "economy.reward_granted"
	// EventRewardFailed is emitted when the ledger call fails. Settlement is
	// not retried here; room-side cleanup proceeds regardless.
	EventRewardFailed logging.EventType = "economy.reward_failed"
)

// RewardPayload describes the computed award.
type RewardPayload struct {
	Tokens int64  `json:"tokens"`
	Kills  int    `json:"kills"`
	Score  int    `json:"score"`
	Reason string `json:"reason,omitempty"`
}

// RewardGranted publishes a successful settlement.
func RewardGranted(ctx context.Context, pub logging.Publisher, room string, player logging.EntityRef, payload RewardPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRewardGranted,
		Room:     room,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// RewardFailed publishes a failed settlement with the ledger error.
func RewardFailed(ctx context.Context, pub logging.Publisher, room string, player logging.EntityRef, payload RewardPayload, err error) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventRewardFailed,
		Room:     room,
		Actor:    player,
		Severity: logging.SeverityError,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	}
	if err != nil {
		event.Extra = map[string]any{"error": err.Error()}
	}
	pub.Publish(ctx, event)
}
