package core

// Frame is a raw encoded payload pushed to a signal connection.
type Frame []byte

// ClientID identifies one live transport connection.
type ClientID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
