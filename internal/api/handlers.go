/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions translate UI requests into engine commands and return
    JSON views of the economy.

    Key Responsibilities:
    - Exposing the snapshot, tier table, and shop quote for rendering.
    - Routing acts, purchases, resets, and hold start/stop to the engine.
    - Reporting an unavailable purchase as 409 (a disabled button), never as a failure.
*/

package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/everforgeworks/pile-clicker/internal/game"
)

// PileDisplayCap is how many pile items the UI draws before summarizing the rest.
const PileDisplayCap = 10000

// PileDisplay splits the pile into drawn items and a "+N more" remainder.
type PileDisplay struct {
	Visible  int `json:"visible"`
	Overflow int `json:"overflow"`
}

// StateResponse is the full view the UI renders after every change.
type StateResponse struct {
	State game.EconomyState `json:"state"`
	Tier  game.Tier         `json:"tier"`
	Pile  PileDisplay       `json:"pile"`
	Shop  game.Shop         `json:"shop"`
}

// ActResponse carries transient "+gain" feedback along with the new state.
type ActResponse struct {
	Gain  game.Gain     `json:"gain"`
	State StateResponse `json:"state"`
}

// HoldResponse reports whether a hold is active after a start/stop request.
type HoldResponse struct {
	Holding bool `json:"holding"`
}

// Handlers binds the REST API to one engine and its hold repeater.
type Handlers struct {
	engine *game.Engine
	holder *game.Holder
	log    *zap.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(e *game.Engine, holder *game.Holder, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{engine: e, holder: holder, log: log}
}

// Routes returns the complete API, including the WebSocket endpoint, wrapped in CORS.
func (h *Handlers) Routes(hub *Hub) http.Handler {
	mux := http.NewServeMux()

	// Information Endpoints
	mux.HandleFunc("GET /api/state", h.HandleGetState)
	mux.HandleFunc("GET /api/tiers", h.HandleGetTiers)
	mux.HandleFunc("GET /api/shop", h.HandleGetShop)

	// Action Endpoints
	mux.HandleFunc("POST /api/act", h.HandleAct)
	mux.HandleFunc("POST /api/reset", h.HandleReset)
	mux.HandleFunc("POST /api/buy/{upgrade}", h.HandleBuy)
	mux.HandleFunc("POST /api/hold/start", h.HandleHoldStart)
	mux.HandleFunc("POST /api/hold/stop", h.HandleHoldStop)

	// Real-Time WebSocket Endpoint
	if hub != nil {
		hub.OnCommand(h.HandleCommand)
		mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(hub, w, r)
		})
	}

	return corsMiddleware(mux)
}

func (h *Handlers) view() StateResponse {
	s, shop := h.engine.Status()
	tiers := h.engine.Tiers()

	resp := StateResponse{
		State: s,
		Pile:  displayPile(s.Pile),
		Shop:  shop,
	}
	if s.Tier >= 0 && s.Tier < len(tiers) {
		resp.Tier = tiers[s.Tier]
	}
	return resp
}

func displayPile(pile int) PileDisplay {
	if pile <= PileDisplayCap {
		return PileDisplay{Visible: pile}
	}
	return PileDisplay{Visible: PileDisplayCap, Overflow: pile - PileDisplayCap}
}

// HandleGetState returns the current snapshot with its display helpers.
func (h *Handlers) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// HandleGetTiers returns the static tier table.
func (h *Handlers) HandleGetTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Tiers())
}

// HandleGetShop returns the price and availability of every upgrade.
func (h *Handlers) HandleGetShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Quote())
}

// HandleAct performs one manual action.
func (h *Handlers) HandleAct(w http.ResponseWriter, r *http.Request) {
	g := h.engine.Act()
	writeJSON(w, http.StatusOK, ActResponse{Gain: g, State: h.view()})
}

// HandleReset wipes the economy back to defaults.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	writeJSON(w, http.StatusOK, h.view())
}

// HandleBuy purchases the upgrade named in the path.
// Unknown upgrades are 404; unaffordable or capped ones are 409 with the unchanged state.
func (h *Handlers) HandleBuy(w http.ResponseWriter, r *http.Request) {
	u := game.Upgrade(r.PathValue("upgrade"))
	switch u {
	case game.UpgradeCrit, game.UpgradePassiveUnit, game.UpgradeHoldUnlock,
		game.UpgradeHoldSpeed, game.UpgradeTier:
	default:
		http.Error(w, "Upgrade not found", http.StatusNotFound)
		return
	}

	status := http.StatusOK
	if !h.engine.Buy(u) {
		status = http.StatusConflict
	}
	writeJSON(w, status, h.view())
}

// HandleHoldStart begins repeating acts. 409 while hold mode is locked.
func (h *Handlers) HandleHoldStart(w http.ResponseWriter, r *http.Request) {
	if !h.holder.Start() {
		writeJSON(w, http.StatusConflict, HoldResponse{Holding: false})
		return
	}
	writeJSON(w, http.StatusOK, HoldResponse{Holding: true})
}

// HandleHoldStop ends an active hold. Stopping when idle is fine.
func (h *Handlers) HandleHoldStop(w http.ResponseWriter, r *http.Request) {
	h.holder.Stop()
	writeJSON(w, http.StatusOK, HoldResponse{Holding: false})
}

// HandleCommand runs a command received over the WebSocket.
// Results reach the client through the engine event broadcast.
func (h *Handlers) HandleCommand(c *Client, msg Message) {
	switch msg.Type {
	case "act":
		h.engine.Act()
	case "hold_start":
		if !h.holder.Start() {
			h.log.Debug("hold start refused", zap.String("client", c.ID()))
		}
	case "hold_stop":
		h.holder.Stop()
	default:
		h.log.Debug("unknown ws command", zap.String("client", c.ID()), zap.String("type", msg.Type))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware lets a UI served from another origin call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
