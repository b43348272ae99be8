// Package live рассылает подключённым окнам приложения уведомления об
// изменении данных, чтобы открытые таблицы и графики перечитывали
// снапшот. Комната — турнир.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Типы уведомлений. Payload — id затронутой сущности; клиент сам решает,
// какие из открытых представлений перечитать.
const (
	MessageTournamentUpdated = "TOURNAMENT_UPDATED"
	MessageTeamUpdated       = "TEAM_UPDATED"
	MessagePlayerUpdated     = "PLAYER_UPDATED"
	MessageMatchUpdated      = "MATCH_UPDATED"
	MessageEventUpdated      = "EVENT_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("live client registered",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, exists := clients[client]; exists {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Info("live client unregistered", slog.String("room", client.room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom отправляет сообщение всем клиентам комнаты. Клиент с
// заполненным каналом пропускается: отстающее окно не должно блокировать
// остальных.
func (h *Hub) BroadcastToRoom(roomID string, messageType string, payload interface{}) {
	message := Message{Type: messageType, Payload: payload, RoomID: roomID}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal live message", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		if !client.trySend(data) {
			h.logger.Warn("live client send buffer full, skipping",
				slog.String("room", roomID))
		}
	}
}
