package server

import (
	"context"
	"math/rand"
	"time"

	"ironsight/server/internal/combat"
	"ironsight/server/internal/economy"
	"ironsight/server/internal/weapons"
	"ironsight/server/logging"
	logcombat "ironsight/server/logging/combat"
	logeconomy "ironsight/server/logging/economy"
	loglifecycle "ironsight/server/logging/lifecycle"
	lognetwork "ironsight/server/logging/network"
)

// Transport delivers outbound events to connected clients. The websocket
// layer implements it; tests substitute a recording fake.
type Transport interface {
	Send(sessionID, event string, payload any)
}

// GatewayConfig bundles the gateway's collaborators. Zero-value fields fall
// back to sensible defaults; only Transport is required.
type GatewayConfig struct {
	Registry  *Registry
	Resolver  *combat.Resolver
	Weapons   *weapons.Catalog
	Ledger    economy.Ledger
	Publisher logging.Publisher
	Transport Transport
	Clock     func() time.Time
	Spawn     func() (x, y float64)
}

// Gateway translates inbound transport events into room, validator, and
// resolver calls, emits the outbound broadcasts, and owns reward settlement.
// Nothing here is fatal: malformed or stale events are dropped, failures are
// scoped to a single event or room.
type Gateway struct {
	registry  *Registry
	resolver  *combat.Resolver
	weapons   *weapons.Catalog
	ledger    economy.Ledger
	publisher logging.Publisher
	transport Transport
	clock     func() time.Time
	spawn     func() (float64, float64)
}

func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		registry:  cfg.Registry,
		resolver:  cfg.Resolver,
		weapons:   cfg.Weapons,
		ledger:    cfg.Ledger,
		publisher: cfg.Publisher,
		transport: cfg.Transport,
		clock:     cfg.Clock,
		spawn:     cfg.Spawn,
	}
	if g.registry == nil {
		g.registry = NewRegistry()
	}
	if g.resolver == nil {
		g.resolver = combat.NewResolver(nil)
	}
	if g.weapons == nil {
		g.weapons = weapons.DefaultCatalog()
	}
	if g.ledger == nil {
		g.ledger = economy.NopLedger{}
	}
	if g.publisher == nil {
		g.publisher = logging.NopPublisher()
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.spawn == nil {
		g.spawn = randomSpawn
	}
	return g
}

func randomSpawn() (float64, float64) {
	return rand.Float64()*spawnWidth + spawnMinX, rand.Float64()*spawnHeight + spawnMinY
}

// Registry exposes the room registry for diagnostics.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// HandleConnect records a fresh transport session.
func (g *Gateway) HandleConnect(ctx context.Context, sessionID string) {
	lognetwork.ClientConnected(ctx, g.publisher, logging.SessionRef(sessionID))
}

// HandleJoin admits the player into a room, broadcasts the new roster entry,
// and sends the initial sync to the joiner only.
func (g *Gateway) HandleJoin(ctx context.Context, sessionID string, payload JoinPayload) {
	if payload.PlayerID == "" {
		g.drop(ctx, sessionID, EventJoin, "missing player id")
		return
	}

	room, created := g.registry.Assign(sessionID)
	if created {
		loglifecycle.RoomOpened(ctx, g.publisher, room.ID)
	}

	spawnX, spawnY := g.spawn()
	record, roster := room.Join(sessionID, payload.PlayerID, spawnX, spawnY)
	loglifecycle.PlayerJoined(ctx, g.publisher, room.ID, logging.PlayerRef(record.ID), loglifecycle.PlayerJoinedPayload{
		SpawnX: record.X,
		SpawnY: record.Y,
	})

	g.broadcast(room, "", EventPlayerJoined, record)
	g.transport.Send(sessionID, EventStart, StartPayload{RoomID: room.ID, Players: roster})
}

// HandleUpdate applies a client-reported state update and relays it to every
// other occupant. Stale references drop silently; clamped fields are logged.
func (g *Gateway) HandleUpdate(ctx context.Context, sessionID string, payload UpdatePayload) {
	room, ok := g.registry.BySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventUpdate, "no room for session")
		return
	}

	applied, suspects, ok := room.UpdateState(payload)
	if !ok {
		g.drop(ctx, sessionID, EventUpdate, "unknown player")
		return
	}
	for _, suspect := range suspects {
		lognetwork.SuspectUpdate(ctx, g.publisher, room.ID, logging.PlayerRef(applied.ID), lognetwork.SuspectUpdatePayload{
			Field:    suspect.Field,
			Reported: suspect.Reported,
			Applied:  suspect.Applied,
		})
	}

	g.broadcast(room, sessionID, EventPlayerUpdate, applied)
}

// HandleShot validates the claim and broadcasts the shot either way; an
// invalid shot still renders on every client, it just gets logged as
// suspect. Scores never change here.
func (g *Gateway) HandleShot(ctx context.Context, sessionID string, payload ShotPayload) {
	room, ok := g.registry.BySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventShot, "no room for session")
		return
	}
	playerID, ok := room.PlayerBySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventShot, "no player for session")
		return
	}

	weapon := g.weapons.Resolve(payload.Weapon)
	claim := combat.ShotClaim{
		Origin:     combat.Vec2{X: payload.Position.X, Y: payload.Position.Y},
		Start:      combat.Vec2{X: payload.Trajectory.StartX, Y: payload.Trajectory.StartY},
		End:        combat.Vec2{X: payload.Trajectory.EndX, Y: payload.Trajectory.EndY},
		ReportedAt: g.clock(),
	}

	verdict, ok := room.ValidateShot(playerID, claim, weapon, g.clock())
	if ok && !verdict.Valid {
		logcombat.ShotRejected(ctx, g.publisher, room.ID, logging.PlayerRef(playerID), logcombat.ShotRejectedPayload{
			Weapon: weapon.Name,
			Reason: verdict.Reason,
		})
	}

	g.broadcast(room, "", EventShot, payload)
}

// HandleHit applies reported damage to the target, credits kills, and echoes
// the hit to the room verbatim.
func (g *Gateway) HandleHit(ctx context.Context, sessionID string, payload HitPayload) {
	room, ok := g.registry.BySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventHit, "no room for session")
		return
	}

	weapon := g.weapons.Resolve(payload.Weapon)
	outcome, ok := room.ApplyHit(payload.PlayerID, payload.TargetID, payload.Damage, weapon)
	if !ok {
		g.drop(ctx, sessionID, EventHit, "target missing or dead")
		return
	}

	attacker := logging.PlayerRef(payload.PlayerID)
	target := logging.PlayerRef(payload.TargetID)
	logcombat.HitApplied(ctx, g.publisher, room.ID, attacker, target, logcombat.HitAppliedPayload{
		Weapon:    payload.Weapon,
		Damage:    int(outcome.Damage),
		Clamped:   outcome.Clamped,
		NewHealth: outcome.TargetHealth,
	})
	if outcome.TargetKilled {
		logcombat.PlayerKilled(ctx, g.publisher, room.ID, attacker, target, logcombat.PlayerKilledPayload{
			Weapon:     payload.Weapon,
			ScoreAward: outcome.ScoreAward,
		})
	}

	g.broadcast(room, "", EventHit, payload)
}

// HandleMelee resolves a melee exchange server-side and broadcasts the
// verdict.
func (g *Gateway) HandleMelee(ctx context.Context, sessionID string, payload MeleePayload) {
	room, ok := g.registry.BySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventMelee, "no room for session")
		return
	}
	playerID, ok := room.PlayerBySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventMelee, "no player for session")
		return
	}

	kind, ok := meleeKind(payload.Kind)
	if !ok {
		g.drop(ctx, sessionID, EventMelee, "unknown action kind")
		return
	}

	result, ok := room.ResolveMelee(g.resolver, playerID, payload.TargetID, kind, payload.Effects)
	if !ok {
		g.drop(ctx, sessionID, EventMelee, "actor missing or dead")
		return
	}

	var targets []logging.EntityRef
	if payload.TargetID != "" {
		targets = []logging.EntityRef{logging.PlayerRef(payload.TargetID)}
	}
	logcombat.MeleeResolved(ctx, g.publisher, room.ID, logging.PlayerRef(playerID), targets, logcombat.MeleeResolvedPayload{
		Kind:           payload.Kind,
		Hit:            result.Hit,
		Damage:         result.DamageDealt,
		TargetKilled:   result.TargetKilled,
		AppliedEffects: result.AppliedEffects,
	})

	g.broadcast(room, "", EventMelee, MeleeResultPayload{
		PlayerID:       playerID,
		TargetID:       payload.TargetID,
		Kind:           payload.Kind,
		Success:        result.Success,
		Hit:            result.Hit,
		DamageDealt:    result.DamageDealt,
		TargetKilled:   result.TargetKilled,
		Message:        result.Message,
		AppliedEffects: result.AppliedEffects,
	})
}

// HandleEnd settles the player's battle: the room tallies are read and
// removed first, then the ledger is credited outside any room lock, and only
// the requesting client hears about the award. Ledger failure is logged and
// never undoes the room-side cleanup.
func (g *Gateway) HandleEnd(ctx context.Context, sessionID string, payload EndPayload) {
	room, ok := g.registry.BySession(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventEnd, "no room for session")
		return
	}

	settlement, ok := room.SettleAndRemove(sessionID)
	if !ok {
		g.drop(ctx, sessionID, EventEnd, "no player for session")
		return
	}
	g.registry.ReleaseSession(sessionID)
	loglifecycle.PlayerLeft(ctx, g.publisher, room.ID, logging.PlayerRef(settlement.PlayerID), loglifecycle.PlayerLeftPayload{Reason: "end"})
	if settlement.Empty {
		g.closeRoom(ctx, room)
	}

	reward := economy.ComputeReward(settlement.Kills, settlement.Score)
	reason := economy.RewardReason(settlement.Kills, settlement.Score)
	rewardPayload := logeconomy.RewardPayload{
		Tokens: reward,
		Kills:  settlement.Kills,
		Score:  settlement.Score,
		Reason: reason,
	}

	creditCtx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	defer cancel()
	if err := g.ledger.CreditPlayer(creditCtx, settlement.PlayerID, reward, reason); err != nil {
		logeconomy.RewardFailed(ctx, g.publisher, room.ID, logging.PlayerRef(settlement.PlayerID), rewardPayload, err)
		return
	}
	logeconomy.RewardGranted(ctx, g.publisher, room.ID, logging.PlayerRef(settlement.PlayerID), rewardPayload)
	g.transport.Send(sessionID, EventReward, RewardPayload{TokensEarned: reward})
}

// HandleDisconnect is the cleanup path for any session termination that did
// not go through an explicit end: abrupt socket closure, leave, read errors.
func (g *Gateway) HandleDisconnect(ctx context.Context, sessionID, reason string) {
	lognetwork.ClientDisconnected(ctx, g.publisher, logging.SessionRef(sessionID), lognetwork.DisconnectedPayload{Reason: reason})

	room, ok := g.registry.BySession(sessionID)
	if !ok {
		return
	}
	playerID, removed, empty := room.Remove(sessionID)
	g.registry.ReleaseSession(sessionID)
	if removed {
		loglifecycle.PlayerLeft(ctx, g.publisher, room.ID, logging.PlayerRef(playerID), loglifecycle.PlayerLeftPayload{Reason: reason})
	}
	if empty {
		g.closeRoom(ctx, room)
	}
}

func (g *Gateway) closeRoom(ctx context.Context, room *BattleRoom) {
	if !g.registry.Evict(room.ID) {
		return
	}
	loglifecycle.RoomClosed(ctx, g.publisher, room.ID, loglifecycle.RoomClosedPayload{
		LifetimeMillis: g.clock().Sub(room.CreatedAt).Milliseconds(),
	})
}

func (g *Gateway) broadcast(room *BattleRoom, except, event string, payload any) {
	for _, sessionID := range room.Sessions(except) {
		g.transport.Send(sessionID, event, payload)
	}
}

func (g *Gateway) drop(ctx context.Context, sessionID, event, reason string) {
	lognetwork.MessageDropped(ctx, g.publisher, logging.SessionRef(sessionID), lognetwork.DroppedPayload{
		Event:  event,
		Reason: reason,
	})
}

func meleeKind(kind string) (combat.ActionType, bool) {
	switch combat.ActionType(kind) {
	case combat.ActionAttack, combat.ActionPowerAttack, combat.ActionDefend, combat.ActionRiposte:
		return combat.ActionType(kind), true
	default:
		return "", false
	}
}
