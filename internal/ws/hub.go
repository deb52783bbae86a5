package ws

import (
	"encoding/json"

	"stockroom/internal/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// StockLevel is the wire shape pushed to clients when a submission commits.
type StockLevel struct {
	ProductVariantID string `json:"product_variant_id"`
	SKU              string `json:"sku"`
	StockCurrent     int    `json:"stock_current"`
}

type stockMessage struct {
	Event  string       `json:"event"`
	Levels []StockLevel `json:"levels"`
}

// Hub fans committed stock level changes out to connected websocket clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			log.Debug().Int("clients", len(h.clients)).Msg("websocket client connected")
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case message := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// BroadcastStockLevels publishes the given variants' current stock. Callers
// invoke it only after their transaction has committed.
func (h *Hub) BroadcastStockLevels(variants []model.ProductVariant) {
	levels := make([]StockLevel, len(variants))
	for i, v := range variants {
		levels[i] = StockLevel{
			ProductVariantID: v.ID.String(),
			SKU:              v.SKU,
			StockCurrent:     v.StockCurrent,
		}
	}
	payload, err := json.Marshal(stockMessage{Event: "stock.updated", Levels: levels})
	if err != nil {
		return
	}
	h.broadcast <- payload
}
