package server

import "time"

const (
	playerMaxHealth   = 100.0
	playerMaxAmmo     = 30
	playerMaxStamina  = 100.0
	playerMeleeDamage = 20.0

	// Spawn window matches the client arena: x in [100,900), y in [100,700).
	spawnMinX   = 100.0
	spawnMinY   = 100.0
	spawnWidth  = 800.0
	spawnHeight = 600.0

	// A position jump beyond this between two consecutive updates is flagged
	// as implausible. Updates arrive at ~20 Hz and top movement speed is well
	// under this per tick; the margin absorbs lag spikes.
	maxPositionDelta = 120.0

	// Reported damage beyond weaponDamage*maxHitFactor is clamped; headshots
	// double base damage and nothing legitimate exceeds that.
	maxHitFactor = 2.0

	maxRoomPlayers = 8

	scorePerDamage = 10

	ledgerTimeout = 5 * time.Second
)
