package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Asadbek07/event-match-system/live"
	"github.com/Asadbek07/event-match-system/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type LiveHandler struct {
	hub          *live.Hub
	statsService services.StatsService
}

func NewLiveHandler(hub *live.Hub, statsService services.StatsService) *LiveHandler {
	return &LiveHandler{
		hub:          hub,
		statsService: statsService,
	}
}

// ServeWs обрабатывает GET /admin/live: апгрейд до WebSocket и подписка
// дашборда на обновления статистики. Маршрут закрыт админской авторизацией.
func (h *LiveHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	// Свежий снапшот сразу после подключения, чтобы дашборд не ждал
	// первой мутации.
	go func() {
		stats, err := h.statsService.ComputeGlobalStats(context.Background())
		if err != nil {
			slog.Error("failed to compute stats for new live client", slog.Any("error", err))
			return
		}
		h.hub.Publish("STATS_UPDATED", stats)
	}()
}
