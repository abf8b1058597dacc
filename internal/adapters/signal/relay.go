package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/protocol"
)

// Relay handlers decode only the target and pass the opaque payload through.
// Missing targets are dropped here; targets that are no longer live are
// dropped in the coordinator. Neither case is reported to the sender.

func (ctl *Controller) handleOffer(sid core.ClientID, data []byte) {
	var p protocol.Signal
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("bad offer payload")
		return
	}
	ctl.Coord.OnOffer(sid, core.ClientID(p.Target), p.SDP)
}

func (ctl *Controller) handleAnswer(sid core.ClientID, data []byte) {
	var p protocol.Signal
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("bad answer payload")
		return
	}
	ctl.Coord.OnAnswer(sid, core.ClientID(p.Target), p.SDP)
}

func (ctl *Controller) handleCandidate(sid core.ClientID, data []byte) {
	var p protocol.Signal
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("bad candidate payload")
		return
	}
	ctl.Coord.OnICECandidate(sid, core.ClientID(p.Target), p.Candidate)
}

func (ctl *Controller) handleChat(sid core.ClientID, data []byte) {
	var p protocol.Chat
	if err := json.Unmarshal(data, &p); err != nil || len(p.Message) == 0 {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("bad chat payload")
		return
	}
	ctl.Coord.OnChat(sid, p.Message)
}
