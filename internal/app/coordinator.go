package app

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
	"github.com/dkeye/Beacon/internal/protocol"
)

// Coordinator turns per-connection events into registry calls and transport
// sends. It holds no state of its own beyond what the two registries track.
type Coordinator struct {
	Registry *RoomRegistry
	Peers    *PeerRegistry
}

// OnJoinRequest gates the join through the registry. Rejection reaches the
// requester only and mutates nothing, so the client may retry. On accept the
// joiner gets the discovery list and everyone already present gets user-joined.
func (c *Coordinator) OnJoinRequest(sid core.ClientID, room domain.RoomID, password string, admin bool) {
	if cur, ok := c.Peers.RoomOf(sid); ok {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(cur)).Msg("repeat join ignored")
		return
	}

	before, err := c.Registry.TryJoin(room, password, sid, admin)
	if errors.Is(err, domain.ErrWrongPassword) {
		c.sendTo(sid, protocol.PasswordError{
			Type:    protocol.EventPasswordError,
			Message: "wrong password",
		})
		return
	}

	c.Peers.SetRoom(sid, room)
	c.sendTo(sid, protocol.AllUsers{Type: protocol.EventAllUsers, Users: before})

	joined := protocol.UserJoined{Type: protocol.EventUserJoined, ID: sid}
	for _, m := range before {
		c.sendTo(m, joined)
	}
}

// OnOffer relays an opaque sdp to the target connection, tagged with the
// sender as caller. Unknown targets are dropped without telling the sender.
func (c *Coordinator) OnOffer(sid core.ClientID, target core.ClientID, sdp json.RawMessage) {
	c.relay(target, protocol.OfferRelay{Type: protocol.EventOffer, SDP: sdp, Caller: sid})
}

// OnAnswer relays an opaque sdp to the target, tagged responder.
func (c *Coordinator) OnAnswer(sid core.ClientID, target core.ClientID, sdp json.RawMessage) {
	c.relay(target, protocol.AnswerRelay{Type: protocol.EventAnswer, SDP: sdp, Responder: sid})
}

// OnICECandidate relays an opaque candidate to the target, tagged from.
func (c *Coordinator) OnICECandidate(sid core.ClientID, target core.ClientID, candidate json.RawMessage) {
	c.relay(target, protocol.CandidateRelay{Type: protocol.EventICECandidate, Candidate: candidate, From: sid})
}

// OnChat broadcasts an opaque message to the sender's room, excluding the
// sender. Un-joined senders are ignored.
func (c *Coordinator) OnChat(sid core.ClientID, message json.RawMessage) {
	room, ok := c.Peers.RoomOf(sid)
	if !ok {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("chat from un-joined connection")
		return
	}
	out := protocol.ChatRelay{Type: protocol.EventChatMessage, ID: sid, Message: message}
	for _, m := range c.Registry.Members(room) {
		if m != sid {
			c.sendTo(m, out)
		}
	}
}

// OnDisconnect notifies the remaining members, then removes the member from
// the registry and drops the peer record. Safe for connections that never
// joined a room.
func (c *Coordinator) OnDisconnect(sid core.ClientID) {
	if room, ok := c.Peers.RoomOf(sid); ok {
		left := protocol.UserLeft{Type: protocol.EventUserLeft, ID: sid}
		for _, m := range c.Registry.Members(room) {
			if m != sid {
				c.sendTo(m, left)
			}
		}
		c.Registry.Leave(room, sid)
		c.Peers.ClearRoom(sid)
	}
	c.Peers.Cancel(sid)
	c.Peers.Unbind(sid)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("disconnected")
}

func (c *Coordinator) relay(target core.ClientID, v any) {
	conn, ok := c.Peers.Get(target)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("target", string(target)).Msg("relay target gone")
		return
	}
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode relay")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.coordinator").Str("target", string(target)).Msg("relay dropped")
	}
}

func (c *Coordinator) sendTo(sid core.ClientID, v any) {
	conn, ok := c.Peers.Get(sid)
	if !ok {
		return
	}
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode event")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.coordinator").Str("sid", string(sid)).Msg("send dropped")
	}
}
