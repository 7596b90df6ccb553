package combat

import (
	"fmt"
	"math"
	"time"

	"ironsight/server/internal/weapons"
)

// Vec2 is a 2D world position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) DistanceTo(other Vec2) float64 {
	return math.Hypot(other.X-v.X, other.Y-v.Y)
}

// ShotClaim is a client-reported firing event. The timestamp is advisory; the
// server clock decides fire-rate budgets and ordering.
type ShotClaim struct {
	Origin     Vec2
	Start      Vec2
	End        Vec2
	ReportedAt time.Time
}

// ShotContext is the room's authoritative view of the shooter at the moment
// the claim arrives.
type ShotContext struct {
	Position     Vec2
	Weapon       weapons.Spec
	LastAccepted time.Time
	Now          time.Time
}

// Verdict is the validator's advisory outcome. An invalid shot is still
// broadcast for visual parity; it only taints downstream damage attribution.
type Verdict struct {
	Valid  bool
	Reason string
}

// OriginTolerance is how far a claimed muzzle position may drift from the
// shooter's last authoritative position before the shot is suspect. Client
// interpolation runs ahead of the last update, so this is deliberately loose.
const OriginTolerance = 50.0

// ValidateShot checks a shot claim against the shooter's authoritative state:
// origin drift, trajectory length versus the weapon's range, and the weapon's
// fire-rate cooldown. It never mutates anything; callers record the accepted
// timestamp themselves.
func ValidateShot(claim ShotClaim, ctx ShotContext) Verdict {
	if drift := claim.Origin.DistanceTo(ctx.Position); drift > OriginTolerance {
		return Verdict{Reason: fmt.Sprintf("origin drift %.1f exceeds tolerance %.1f", drift, OriginTolerance)}
	}

	if length := claim.Start.DistanceTo(claim.End); length > ctx.Weapon.Range {
		return Verdict{Reason: fmt.Sprintf("trajectory %.1f exceeds %s range %.1f", length, ctx.Weapon.Name, ctx.Weapon.Range)}
	}

	if !ctx.LastAccepted.IsZero() && ctx.Weapon.FireInterval > 0 {
		if elapsed := ctx.Now.Sub(ctx.LastAccepted); elapsed < ctx.Weapon.FireInterval {
			return Verdict{Reason: fmt.Sprintf("fired %s after previous shot, cooldown is %s", elapsed, ctx.Weapon.FireInterval)}
		}
	}

	return Verdict{Valid: true}
}
