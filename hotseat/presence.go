/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hotseat

import (
	"slices"
	"time"
)

// disconnect handles a player's connection going away. In the lobby the
// player is dropped outright; once a game exists their identity, score and
// counters are kept and only the connection binding is cleared. It reports
// whether the player was removed from the room.
func (r *room) disconnect(p *Player, now time.Time) bool {
	if r.phase == PhaseLobby {
		r.players = slices.DeleteFunc(r.players, func(o *Player) bool {
			return o.ID == p.ID
		})

		if len(r.players) == 0 {
			r.dispose()

			return true
		}
		if p.IsHost {
			p.IsHost = false
			r.players[0].IsHost = true
		}

		return true
	}

	p.ConnID = ""

	if p.IsHost {
		if next := r.firstConnected(); next != nil {
			p.IsHost = false
			next.IsHost = true
		}
	}

	if r.phase.inGame() && len(r.connectedPlayers()) < r.cfg.MinPlayers {
		r.finish()

		return false
	}

	if p.IsHotSeat {
		r.forceRoundComplete(now)
	}
	r.evaluate(now)

	return false
}

// reconnect rebinds a known player. It never moves the room to another phase
// and never hands back a host flag that was transferred away.
func (r *room) reconnect(p *Player, connID string) {
	p.ConnID = connID
}

func (r *room) firstConnected() *Player {
	for _, p := range r.players {
		if p.connected() {
			return p
		}
	}

	return nil
}

// dispose tears the room down; nothing may touch it afterwards.
func (r *room) dispose() {
	r.disarm()
	r.disposed = true
}
