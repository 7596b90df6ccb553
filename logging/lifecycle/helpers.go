// Package lifecycle publishes room and roster lifecycle events.
package lifecycle

import (
	"context"

	"ironsight/server/logging"
)

const (
	// EventRoomOpened is emitted when the registry creates a battle room.
	EventRoomOpened logging.EventType = "lifecycle.room_opened"
	// EventRoomClosed is emitted when the last occupant leaves and the room
	// is evicted from the registry.
	EventRoomClosed logging.EventType = "lifecycle.room_closed"
	// EventPlayerJoined is emitted when a player record is created in a room.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerLeft is emitted on any removal path: explicit end, leave, or
	// abrupt disconnect.
	EventPlayerLeft logging.EventType = "lifecycle.player_left"
)

// PlayerJoinedPayload captures spawn metadata for a new player.
type PlayerJoinedPayload struct {
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// PlayerLeftPayload captures the removal path taken.
type PlayerLeftPayload struct {
	Reason string `json:"reason"`
}

// RoomClosedPayload captures how long the room lived.
type RoomClosedPayload struct {
	LifetimeMillis int64 `json:"lifetimeMillis"`
}

// RoomOpened publishes a room creation event.
func RoomOpened(ctx context.Context, pub logging.Publisher, room string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomOpened,
		Room:     room,
		Actor:    logging.RoomRef(room),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

// RoomClosed publishes a room eviction event.
func RoomClosed(ctx context.Context, pub logging.Publisher, room string, payload RoomClosedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomClosed,
		Room:     room,
		Actor:    logging.RoomRef(room),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// PlayerJoined publishes a roster addition.
func PlayerJoined(ctx context.Context, pub logging.Publisher, room string, player logging.EntityRef, payload PlayerJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Room:     room,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// PlayerLeft publishes a roster removal.
func PlayerLeft(ctx context.Context, pub logging.Publisher, room string, player logging.EntityRef, payload PlayerLeftPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerLeft,
		Room:     room,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
