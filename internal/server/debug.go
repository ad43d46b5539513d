package server

import (
	"encoding/json"
	"net/http"

	"nuggets-server/pkg/logger"

	"github.com/matryer/way"
)

// DebugHandler предоставляет доступ к состоянию партии
type DebugHandler struct {
	status StatusFunc
}

func NewDebugHandler(status StatusFunc) *DebugHandler {
	return &DebugHandler{status: status}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(router *way.Router) {
	router.HandleFunc("GET", "/debug/state", h.handleState)
	router.HandleFunc("GET", "/debug/players", h.handlePlayers)
}

// /debug/state - снимок: золото, игроки, счетчики
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	if h.status == nil {
		http.Error(w, "game loop not running", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, h.status())
}

// /debug/players - только таблица игроков
func (h *DebugHandler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if h.status == nil {
		http.Error(w, "game loop not running", http.StatusServiceUnavailable)
		return
	}
	players := h.status().Players
	if players == nil {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, players)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Пустой список отдаем как [], а не null
	if data == nil {
		if _, err := w.Write([]byte("[]")); err != nil {
			logger.Log.WithError(err).Debug("debug write failed")
		}
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug encode failed")
	}
}
