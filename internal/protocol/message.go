// Package protocol defines the wire messages exchanged over the signal
// channels. Inbound frames carry a "type" discriminator; sdp, candidate
// and chat payloads are opaque and relayed untouched.
package protocol

import (
	"encoding/json"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
)

// Event names on the wire. Relayed events keep the inbound name.
const (
	EventJoinRoom     = "join-room"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventChatMessage  = "chat-message"

	EventAllUsers      = "all-users"
	EventUserJoined    = "user-joined"
	EventUserLeft      = "user-left"
	EventPasswordError = "password-error"
	EventRoomsUpdate   = "rooms-update"
	EventError         = "error"
)

// Envelope is the minimal shape every inbound frame must carry.
type Envelope struct {
	Type string `json:"type"`
}

// JoinRoom is the inbound join request. Admin connections may omit the
// password entirely.
type JoinRoom struct {
	RoomID   string `json:"roomId"`
	Password string `json:"password"`
}

// Signal is the inbound shape shared by offer, answer and ice-candidate.
type Signal struct {
	Target    string          `json:"target"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Chat is the inbound chat-message payload.
type Chat struct {
	Message json.RawMessage `json:"message"`
}

// AllUsers tells a fresh joiner who was already in the room, in join order.
type AllUsers struct {
	Type  string          `json:"type"`
	Users []core.ClientID `json:"users"`
}

type UserJoined struct {
	Type string        `json:"type"`
	ID   core.ClientID `json:"id"`
}

type UserLeft struct {
	Type string        `json:"type"`
	ID   core.ClientID `json:"id"`
}

type PasswordError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// OfferRelay and AnswerRelay tag the opaque sdp with the sender's id.
type OfferRelay struct {
	Type   string          `json:"type"`
	SDP    json.RawMessage `json:"sdp"`
	Caller core.ClientID   `json:"caller"`
}

type AnswerRelay struct {
	Type      string          `json:"type"`
	SDP       json.RawMessage `json:"sdp"`
	Responder core.ClientID   `json:"responder"`
}

type CandidateRelay struct {
	Type      string          `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
	From      core.ClientID   `json:"from"`
}

type ChatRelay struct {
	Type    string          `json:"type"`
	ID      core.ClientID   `json:"id"`
	Message json.RawMessage `json:"message"`
}

// RoomsUpdate is the admin snapshot: room key to members in join order.
type RoomsUpdate struct {
	Type  string                            `json:"type"`
	Rooms map[domain.RoomID][]core.ClientID `json:"rooms"`
}

type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
