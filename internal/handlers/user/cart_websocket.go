package user

import (
	"log"
	"net/http"
	"time"

	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/cart"
	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsPingInterval = 30 * time.Second

// CartSocket streams cart snapshots to the user's open tabs.
type CartSocket struct {
	carts    CartRegistry
	pubsub   *cache.Store
	upgrader websocket.Upgrader
}

// NewCartSocket accepts handshakes from the given origins; an empty list accepts any.
func NewCartSocket(carts CartRegistry, pubsub *cache.Store, origins []string) *CartSocket {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &CartSocket{
		carts:  carts,
		pubsub: pubsub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

type cartMessage struct {
	Type      string             `json:"type"`
	Items     []models.CartLine  `json:"items"`
	Totals    models.OrderTotals `json:"totals"`
	SyncError string             `json:"sync_error,omitempty"`
}

func snapshotMessage(kind string, s *cart.Synchronizer) cartMessage {
	st := s.Snapshot()
	return cartMessage{
		Type:      kind,
		Items:     st.Items,
		Totals:    models.ComputeTotals(st.Cart(s.UserID())),
		SyncError: st.SyncError,
	}
}

//
// 🔌 GET /api/cart/ws
//
func (h *CartSocket) Serve(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}

	s, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("⚠️ Cart load for %s: %v", userID, err)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.pubsub.Subscribe(ctx, cart.Channel(userID))
	defer sub.Close()
	ch := sub.Channel()

	// the reader only exists to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(snapshotMessage("connected", s)); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != cart.EventUpdated && msg.Payload != cart.EventCleared {
				continue
			}
			// another instance may have written the rows
			if err := s.Refresh(ctx); err != nil {
				log.Printf("⚠️ Cart refresh for %s: %v", userID, err)
			}
			if err := conn.WriteJSON(snapshotMessage("cart_updated", s)); err != nil {
				log.Printf("❌ WebSocket send failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
