package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
	"github.com/dkeye/Beacon/internal/protocol"
)

func (ctl *Controller) handleJoin(
	sid core.ClientID,
	admin bool,
	conn *WsSignalConn,
	data []byte,
) {
	if !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		ctl.sendJSON(conn, protocol.Error{Type: protocol.EventError, Error: "too_many_attempts"})
		return
	}

	var p protocol.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join payload")
		ctl.sendJSON(conn, protocol.Error{Type: protocol.EventError, Error: "bad_payload"})
		return
	}
	// Room keys are opaque, so an over-long key is rejected rather than
	// truncated: truncation would silently collide distinct keys.
	if p.RoomID == "" || len(p.RoomID) > domain.MaxRoomIDLen {
		ctl.sendJSON(conn, protocol.Error{Type: protocol.EventError, Error: "bad_payload"})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Bool("admin", admin).Msg("join")
	ctl.Coord.OnJoinRequest(sid, domain.RoomID(p.RoomID), p.Password, admin)
}
