// Feudbox host panel
//
// One person runs the show from a browser: they buzz teams in, flip answers,
// hand out strikes and award the bank, while an optional board display shows
// the same game to the room with unrevealed answers kept hidden.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - First panel connection to a game becomes the host; only the host's
//   commands are applied
// - A disconnected host keeps the panel for --host-timeout before it is handed
//   to the next connected panel
// - Board displays (/path/:gameid/board) receive the redacted snapshot and can
//   never become host
// - Clients identified by cookie (clientID)
// - Games that have not been played yet pick up reloaded content; the host can
//   force a reload at any time, which restarts the game
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - QR code of the board URL, backed by go-qrcode
// - JSON snapshot at /path/:gameid/state

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/feudbox/content"
	"github.com/Seednode/feudbox/feud"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type    string          `json:"type"`
	Team    string          `json:"team,omitempty"`    // buzz / begin_round / award
	Slot    *int            `json:"slot,omitempty"`    // reveal / fm_points / fm_toggle
	Player  *int            `json:"player,omitempty"`  // fm_points
	Value   json.RawMessage `json:"value,omitempty"`   // fm_points, number or string
	Success *bool           `json:"success,omitempty"` // resolve_steal
}

// SessionInfoMessage is sent immediately on connect so the client knows
// what role this cookie has.
type SessionInfoMessage struct {
	Type      string    `json:"type"` // "session_info"
	GameID    string    `json:"game_id"`
	IsHost    bool      `json:"is_host"`
	IsBoard   bool      `json:"is_board"`
	CreatedAt time.Time `json:"created_at"`
}

// StateMessage carries a snapshot of the game.
type StateMessage struct {
	Type     string        `json:"type"` // "state"
	Redacted bool          `json:"redacted"`
	State    feud.Snapshot `json:"state"`
}

// toEvent maps a client command onto a game event. Unknown types and
// commands missing a required field are rejected.
func toEvent(msg ClientMessage) (feud.Event, bool) {
	switch msg.Type {
	case "buzz":
		t, ok := feud.ParseTeam(msg.Team)
		return feud.Buzz{Team: t}, ok
	case "pass":
		return feud.Pass{}, true
	case "wrong":
		return feud.Wrong{}, true
	case "strike":
		return feud.Strike{}, true
	case "begin_round":
		t, ok := feud.ParseTeam(msg.Team)
		return feud.BeginRound{Team: t}, ok
	case "reveal":
		if msg.Slot == nil {
			return nil, false
		}
		return feud.Reveal{Slot: *msg.Slot}, true
	case "award":
		t, ok := feud.ParseTeam(msg.Team)
		return feud.Award{Team: t}, ok
	case "resolve_steal":
		if msg.Success == nil {
			return nil, false
		}
		return feud.ResolveSteal{Success: *msg.Success}, true
	case "next_round":
		return feud.NextRound{}, true
	case "restart":
		return feud.Restart{}, true
	case "start_faceoff":
		return feud.StartFaceoff{}, true
	case "start_sudden":
		return feud.StartSuddenDeath{}, true
	case "back_to_rounds":
		return feud.BackToRounds{}, true
	case "fm_points":
		if msg.Player == nil || msg.Slot == nil {
			return nil, false
		}
		return feud.SetPoints{Player: *msg.Player, Slot: *msg.Slot, Value: coerceValue(msg.Value)}, true
	case "fm_toggle":
		if msg.Slot == nil {
			return nil, false
		}
		return feud.ToggleShow{Slot: *msg.Slot}, true
	case "fm_reveal_next":
		return feud.RevealNextHidden{}, true
	case "fm_reset":
		return feud.ResetFastMoney{}, true
	}

	return nil, false
}

// coerceValue accepts the raw contents of a points input, quoted or not.
func coerceValue(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return feud.CoercePoints(s)
	}

	return feud.CoercePoints(string(raw))
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
	board    bool
}

type command struct {
	client *Client
	msg    ClientMessage
}

// contentUpdate swaps the rounds of a game. Unforced updates only apply to
// games nobody has played yet.
type contentUpdate struct {
	content content.Content
	force   bool
}

type Hub struct {
	id      string
	clients map[*Client]bool
	session *feud.Session
	store   *content.Store

	register chan *Client
	unreg    chan *Client
	commands chan command
	changed  chan struct{}
	updates  chan contentUpdate
	done     chan struct{}
	stop     sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	hostID     string // cookie/clientID of the host
	hostGen    uint64 // bumped whenever the host connects or disconnects
}

func newHub(cfg *Config, gameID string, store *content.Store) *Hub {
	now := time.Now()

	h := &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		store:      store,
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		changed:    make(chan struct{}, 1),
		updates:    make(chan contentUpdate, 1),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}

	h.session = feud.New(store.Current(),
		feud.WithSuddenDelay(cfg.suddenDelay),
		feud.WithNotify(h.notifyChanged),
	)

	return h
}

// notifyChanged is called by the session after its sudden death timer fires.
func (h *Hub) notifyChanged() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()

			// First panel connection becomes host
			if !c.board && h.hostID == "" {
				h.hostID = c.clientID
				logf(cfg, "GAMES: Host connected to %s", h.id)
			}

			// A returning host disarms any pending release.
			if h.isHostLocked(c) {
				h.hostGen++
			}

			h.clients[c] = true

			// Send session_info first, so the client knows which view to render.
			h.sendLocked(c, h.sessionInfoLocked(c))
			h.sendStateLocked(c, h.session.Snapshot())

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			isHost := h.isHostLocked(c)
			if isHost {
				h.hostGen++
			}
			gen := h.hostGen
			h.mu.Unlock()

			if isHost && cfg.hostTimeout > 0 {
				go h.scheduleHostRelease(cfg, c.clientID, gen, cfg.hostTimeout)
			}

		case cmd := <-h.commands:
			h.handleCommand(cfg, cmd)

		case <-h.changed:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.broadcastStateLocked()
			h.mu.Unlock()

		case u := <-h.updates:
			h.applyContent(cfg, u)
		}
	}
}

func (h *Hub) isHostLocked(c *Client) bool {
	return !c.board && c.clientID != "" && c.clientID == h.hostID
}

func (h *Hub) sessionInfoLocked(c *Client) SessionInfoMessage {
	return SessionInfoMessage{
		Type:      "session_info",
		GameID:    h.id,
		IsHost:    h.isHostLocked(c),
		IsBoard:   c.board,
		CreatedAt: h.createdAt,
	}
}

// sendLocked queues msg for c, dropping the client if it cannot keep up.
func (h *Hub) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendStateLocked(c *Client, snap feud.Snapshot) {
	if h.isHostLocked(c) {
		h.sendLocked(c, StateMessage{Type: "state", State: snap})
		return
	}

	h.sendLocked(c, StateMessage{Type: "state", Redacted: true, State: snap.Redacted()})
}

// broadcastStateLocked sends the host the full snapshot and everyone else
// the redacted one.
func (h *Hub) broadcastStateLocked() {
	snap := h.session.Snapshot()

	for client := range h.clients {
		h.sendStateLocked(client, snap)
	}
}

// handleCommand applies a host command to the session.
func (h *Hub) handleCommand(cfg *Config, cmd command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	// Only the host may drive the game
	if !h.isHostLocked(cmd.client) {
		return
	}

	if cmd.msg.Type == "reload_content" {
		logf(cfg, "GAMES: Host of %s requested a content reload", h.id)
		go h.reload(cfg)
		return
	}

	ev, ok := toEvent(cmd.msg)
	if !ok {
		return
	}

	if !h.session.Apply(ev) {
		return
	}

	logf(cfg, "GAMES: Applied %s in %s", cmd.msg.Type, h.id)

	h.broadcastStateLocked()
}

// reload re-reads the content source and restarts the game with the result.
func (h *Hub) reload(cfg *Config) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, err := h.store.Reload(ctx)
	logContent(cfg, h.store.Source(), c, err)

	h.offer(contentUpdate{content: c, force: true})
}

// offer hands u to the run loop unless the hub has been closed.
func (h *Hub) offer(u contentUpdate) {
	select {
	case h.updates <- u:
	case <-h.done:
	}
}

func (h *Hub) applyContent(cfg *Config, u contentUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !u.force && !untouched(h.session.Snapshot()) {
		return
	}

	h.session.LoadContent(u.content)
	logf(cfg, "GAMES: Loaded %d rounds into %s", len(u.content.Rounds), h.id)

	h.broadcastStateLocked()
}

// untouched reports whether a game is still sitting at its opening faceoff.
func untouched(snap feud.Snapshot) bool {
	if snap.Phase != feud.PhaseFaceoff || snap.RoundIndex != 0 {
		return false
	}
	if snap.TeamA != 0 || snap.TeamB != 0 || snap.Bank != 0 || snap.Strikes != 0 {
		return false
	}
	if snap.FaceoffBuzz != feud.TeamNone || snap.Control != feud.TeamNone {
		return false
	}
	for _, tile := range snap.Tiles {
		if tile.Revealed {
			return false
		}
	}
	return true
}

// scheduleHostRelease waits for d, and if the host has neither come back nor
// left again since gen, hands the panel to the next connected panel client,
// if any.
func (h *Hub) scheduleHostRelease(cfg *Config, clientID string, gen uint64, d time.Duration) {
	select {
	case <-time.After(d):
	case <-h.done:
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostID != clientID || h.hostGen != gen {
		return
	}

	for client := range h.clients {
		if client.clientID == clientID && !client.board {
			return
		}
	}

	h.hostID = ""
	for client := range h.clients {
		if !client.board && client.clientID != "" {
			h.hostID = client.clientID
			break
		}
	}

	if h.hostID == "" {
		logf(cfg, "GAMES: Host of %s released", h.id)
		return
	}

	logf(cfg, "GAMES: Host of %s handed over", h.id)

	h.lastActive = time.Now()

	snap := h.session.Snapshot()
	for client := range h.clients {
		h.sendLocked(client, h.sessionInfoLocked(client))
	}
	for client := range h.clients {
		h.sendStateLocked(client, snap)
	}
}

// closeAll disconnects all clients of this hub and stops its run loop.
func (h *Hub) closeAll() {
	h.stop.Do(func() { close(h.done) })

	h.session.Restart()

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

// isHostID reports whether id holds the host role.
func (h *Hub) isHostID(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return id != "" && id == h.hostID
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientCookieName = "feudbox_id"

func clientID(r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil {
		return c.Value
	}
	return ""
}

func getOrSetClientID(w http.ResponseWriter, r *http.Request) string {
	if id := clientID(r); id != "" {
		return id
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	cfg         *Config
	store       *content.Store
}

func newGameManager(cfg *Config, store *content.Store) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		cfg:         cfg,
		store:       store,
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gameID, gm.store)
	gm.hubs[gameID] = hub
	go hub.run(gm.cfg)
	return hub
}

func (gm *GameManager) lookup(gameID string) (*Hub, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	hub, ok := gm.hubs[gameID]
	return hub, ok
}

// contentChanged offers freshly loaded content to every game.
func (gm *GameManager) contentChanged(c content.Content) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for _, hub := range gm.hubs {
		go hub.offer(contentUpdate{content: c})
	}
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		gm.reap(time.Now().Add(-gm.idleTimeout))
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			logf(gm.cfg, "GAMES: Reaped idle game %s", id)
			go hub.closeAll()
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		id := getOrSetClientID(w, r)

		hub := gm.getHub(gameID)

		// Carries the Set-Cookie for clients that arrive without one.
		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			logf(cfg, "SERVE: Websocket upgrade for %s failed: %v", gameID, err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			clientID: id,
			board:    r.URL.Query().Get("view") == "board",
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		// Boards are display only
		if c.board {
			continue
		}

		select {
		case h.commands <- command{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code pointing at the game's board display.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; swap "/qr" for "/board".
		path := strings.TrimSuffix(r.URL.Path, "/qr") + "/board"

		url := scheme + "://" + r.Host + path

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// serveState returns the game snapshot as JSON. Only the host's cookie sees
// unrevealed answers.
func serveState(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		hub, ok := gm.lookup(ps.ByName("gameid"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		snap := hub.session.Snapshot()
		if !hub.isHostID(clientID(r)) {
			snap = snap.Redacted()
		}

		data, err := json.Marshal(snap)
		if err != nil {
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: State of %s (%s) to %s in %s",
			hub.id,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// ---- Static file paths ----

//go:embed panel/index.html
var indexHTML []byte

//go:embed panel/board.html
var boardHTML []byte

func getPageHandler(cfg *Config, page []byte, claim bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		// The host panel hands out the cookie that decides who hosts.
		if claim {
			w.Header().Set("Cache-Control", "private, no-store")
			_ = getOrSetClientID(w, r)
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		}

		_, _ = w.Write(page)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerFeudGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → host panel
//   - $path/:gameid/board    → board display
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for the board URL
//   - $path/:gameid/state    → JSON snapshot
func registerFeudGame(cfg *Config, path string, gm *GameManager, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getPageHandler(cfg, indexHTML, true))

	mux.GET(cfg.prefix+path+"/:gameid/board", getPageHandler(cfg, boardHTML, false))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg, errs))

	mux.GET(cfg.prefix+path+"/:gameid/state", serveState(cfg, gm, errs))
}
