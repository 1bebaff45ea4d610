package events

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Broadcaster relays bus events to WebSocket observers. External
// collaborators connect to /events and receive each event as a JSON text
// message; delivery is best-effort with no acknowledgment.
type Broadcaster struct {
	bus      *Bus
	log      zerolog.Logger
	upgrader websocket.Upgrader

	conns   sync.Map // map[int64]*websocket.Conn
	connSeq atomic.Int64

	stop func()
}

// NewBroadcaster creates a broadcaster bound to the given bus.
func NewBroadcaster(bus *Bus, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		bus: bus,
		log: log.With().Str("component", "broadcaster").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Observers are local tooling; origin checks add nothing here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start subscribes to the bus and begins relaying events until Stop.
func (b *Broadcaster) Start() {
	ch, unsubscribe := b.bus.Subscribe()
	b.stop = unsubscribe

	go func() {
		for event := range ch {
			b.relay(event)
		}
	}()
}

// Stop detaches from the bus and closes all observer connections.
func (b *Broadcaster) Stop() {
	if b.stop != nil {
		b.stop()
	}
	b.conns.Range(func(key, value interface{}) bool {
		value.(*websocket.Conn).Close()
		b.conns.Delete(key)
		return true
	})
}

// ServeHTTP upgrades the request to a WebSocket observer connection.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := b.connSeq.Add(1)
	b.conns.Store(id, conn)
	b.log.Debug().Int64("conn", id).Msg("observer connected")

	// Drain reads so close frames and pings are processed; observers never
	// send application data.
	go func() {
		defer func() {
			b.conns.Delete(id)
			conn.Close()
			b.log.Debug().Int64("conn", id).Msg("observer disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (b *Broadcaster) relay(event Event) {
	b.conns.Range(func(key, value interface{}) bool {
		conn := value.(*websocket.Conn)
		if err := conn.WriteJSON(event); err != nil {
			b.conns.Delete(key)
			conn.Close()
		}
		return true
	})
}
