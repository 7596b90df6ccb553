// Package network publishes transport-domain log events.
package network

import (
	"context"

	"ironsight/server/logging"
)

const (
	// EventClientConnected is emitted when a websocket session opens.
	EventClientConnected logging.EventType = "network.client_connected"
	// EventClientDisconnected is emitted when a websocket session ends.
	EventClientDisconnected logging.EventType = "network.client_disconnected"
	// EventMessageDropped is emitted when an inbound event references state
	// that no longer exists (stale room/player) and is silently discarded.
	EventMessageDropped logging.EventType = "network.message_dropped"
	// EventSuspectUpdate is emitted when a client-reported state update is
	// clamped or flagged as implausible.
	EventSuspectUpdate logging.EventType = "network.suspect_update"
)

// DisconnectedPayload carries the reason the session ended.
type DisconnectedPayload struct {
	Reason string `json:"reason"`
}

// DroppedPayload names the event that was discarded and why.
type DroppedPayload struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

// SuspectUpdatePayload describes what was clamped or flagged.
type SuspectUpdatePayload struct {
	Field    string  `json:"field"`
	Reported float64 `json:"reported"`
	Applied  float64 `json:"applied"`
}

// ClientConnected publishes a session-open event.
func ClientConnected(ctx context.Context, pub logging.Publisher, session logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClientConnected,
		Actor:    session,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
	})
}

// ClientDisconnected publishes a session-close event.
func ClientDisconnected(ctx context.Context, pub logging.Publisher, session logging.EntityRef, payload DisconnectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClientDisconnected,
		Actor:    session,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// MessageDropped publishes a silent-drop event at debug severity; stale
// references during disconnect races are expected traffic.
func MessageDropped(ctx context.Context, pub logging.Publisher, session logging.EntityRef, payload DroppedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMessageDropped,
		Actor:    session,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// SuspectUpdate publishes a clamped-update event.
func SuspectUpdate(ctx context.Context, pub logging.Publisher, room string, player logging.EntityRef, payload SuspectUpdatePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSuspectUpdate,
		Room:     room,
		Actor:    player,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}
