package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/protocol"
)

// AdminFeed pushes registry snapshots to admin connections. One Run loop
// exists per admin connection; it publishes once immediately, then on every
// tick, and exits when the connection's context is canceled.
type AdminFeed struct {
	Registry *RoomRegistry
	Interval time.Duration
}

func (f *AdminFeed) Run(ctx context.Context, sid core.ClientID, conn core.SignalConnection) {
	f.publish(sid, conn)

	t := time.NewTicker(f.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.adminfeed").Str("sid", string(sid)).Msg("snapshot task stopped")
			return
		case <-t.C:
			f.publish(sid, conn)
		}
	}
}

func (f *AdminFeed) publish(sid core.ClientID, conn core.SignalConnection) {
	frame, err := protocol.Encode(protocol.RoomsUpdate{
		Type:  protocol.EventRoomsUpdate,
		Rooms: f.Registry.Snapshot(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.adminfeed").Msg("encode snapshot")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.adminfeed").Str("sid", string(sid)).Msg("snapshot dropped")
	}
}
