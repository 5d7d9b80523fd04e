package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"slices"
	"time"

	"matchgrid/internal/app"
	"matchgrid/internal/config"
	"matchgrid/internal/domain"
	"matchgrid/internal/ports"
	"matchgrid/internal/schedule"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	OwnerID   string                      // User controlling the game; everyone else spectates
	JoinOrder []string                    // Present user ids, oldest first, for owner hand-off
	Presences map[string]runtime.Presence // Map UserId -> Presence for targeted messaging
	Tick      int64                       // Last match loop tick
	MatchID   string

	Config     config.GameConfig
	Scheduler  *schedule.Scheduler
	Controller *app.Controller
	Results    ports.ResultStore  // Optional sink for finished games
	Receipts   *app.ReceiptSigner // Nil when no receipt secret is configured

	label string // Last label pushed to Nakama
}

// newMatchState builds an idle game for cfg.
func newMatchState(cfg *config.GameConfig, rng *rand.Rand) (*MatchState, error) {
	sched := schedule.New()
	ctrl, err := app.NewController(cfg, sched, rng)
	if err != nil {
		return nil, err
	}
	state := &MatchState{
		Presences:  make(map[string]runtime.Presence),
		Config:     *cfg,
		Scheduler:  sched,
		Controller: ctrl,
	}
	if cfg.ReceiptSecret != "" {
		state.Receipts = app.NewReceiptSigner(cfg.ReceiptSecret)
	}
	return state, nil
}

// virtualTime converts a match tick into controller time.
func virtualTime(tick int64, tickRate int) time.Duration {
	return time.Duration(tick) * time.Second / time.Duration(tickRate)
}

// open reports whether quick match may route a new player here. A game has
// a single player, so only an unclaimed lobby is open; spectators join by
// match id.
func (ms *MatchState) open() bool {
	return ms.OwnerID == "" && ms.Controller.Phase() == domain.PhaseIdle
}

func (ms *MatchState) removePresence(userID string) {
	delete(ms.Presences, userID)
	ms.JoinOrder = slices.DeleteFunc(ms.JoinOrder, func(id string) bool { return id == userID })
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg, err := configFromContext(ctx)
	if err != nil {
		logger.Error("MatchInit: Invalid runtime config: %v", err)
		return nil, 0, ""
	}
	cfg, err = config.FromParams(cfg, params)
	if err != nil {
		logger.Error("MatchInit: Invalid match params %v: %v", params, err)
		return nil, 0, ""
	}

	state, err := newMatchState(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		logger.Error("MatchInit: Failed to build game: %v", err)
		return nil, 0, ""
	}
	if nk != nil {
		state.Results = NewNakamaResultStore(nk)
	}
	state.MatchID, _ = ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	label, err := encodeLabel(true, domain.PhaseIdle)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.label = label

	logger.Info("MatchInit: %dx%d grid, %ds limit, tick rate %d", cfg.Rows, cfg.Columns, cfg.TimeLimitSeconds, cfg.TickRate)
	return state, cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if _, exists := matchState.Presences[presence.GetUserId()]; exists {
		return state, false, "Already joined"
	}
	if len(matchState.Presences) >= matchState.Config.MaxPresences {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.JoinOrder = append(matchState.JoinOrder, userID)
		if matchState.OwnerID == "" {
			matchState.OwnerID = userID
			logger.Info("MatchJoin: User %s owns the game.", userID)
		} else {
			logger.Debug("MatchJoin: User %s joined as spectator.", userID)
		}
	}

	mh.sendSnapshot(matchState, dispatcher, logger, presences)
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	ownerLeft := false
	for _, p := range presences {
		matchState.removePresence(p.GetUserId())
		if p.GetUserId() == matchState.OwnerID {
			ownerLeft = true
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	if ownerLeft {
		logger.Debug("MatchLeave: Owner %s left, pausing.", matchState.OwnerID)
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, matchState.Controller.FocusLost())
		matchState.OwnerID = matchState.JoinOrder[0]
		logger.Info("MatchLeave: Ownership passed to %s.", matchState.OwnerID)
		mh.sendSnapshot(matchState, dispatcher, logger, nil)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	now := virtualTime(tick, matchState.Config.TickRate)
	mh.broadcastEvents(ctx, matchState, dispatcher, logger, matchState.Controller.Advance(now))

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.OwnerID {
		logger.Warn("MatchLoop: User %s sent op %d but is not owner (owner=%s)", senderID, msg.GetOpCode(), state.OwnerID)
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeNotOwner, "only the owner controls the game")
		return
	}

	ctrl := state.Controller
	var (
		events []app.Event
		err    error
	)
	switch msg.GetOpCode() {
	case OpStart:
		events, err = ctrl.Start()
	case OpReveal:
		index, derr := decodeReveal(msg.GetData())
		if derr != nil {
			logger.Warn("Reveal: Invalid request from %s: %v", senderID, derr)
			mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, derr.Error())
			return
		}
		events = ctrl.Reveal(index)
		if len(events) == 0 {
			logger.Debug("Reveal: Selection %d ignored (phase=%s)", index, ctrl.Phase())
		}
	case OpFocusLost:
		events = ctrl.FocusLost()
	case OpFocusGained:
		events = ctrl.FocusGained()
	case OpRestart:
		confirmed, derr := decodeRestart(msg.GetData())
		if derr != nil {
			logger.Warn("Restart: Invalid request from %s: %v", senderID, derr)
			mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, derr.Error())
			return
		}
		events, err = ctrl.Restart(confirmed)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return
	}

	if err != nil {
		logger.Warn("MatchLoop: Op %d from %s rejected: %v", msg.GetOpCode(), senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeInvalidCommand, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// broadcastEvents sends controller events to every presence in order.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		if ev.Kind == app.EventGameEnded {
			ev = mh.recordResult(ctx, state, logger, ev)
		}
		opCode, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
			logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
		}
	}
}

// recordResult signs and stores a finished game. Failures are logged; the
// game_ended event is always delivered.
func (mh *matchHandler) recordResult(ctx context.Context, state *MatchState, logger runtime.Logger, ev app.Event) app.Event {
	p, ok := ev.Payload.(app.GameEndedPayload)
	if !ok || state.OwnerID == "" {
		return ev
	}
	logger.Info("GameEnded: Game %s won=%t remaining=%ds user=%s", p.GameID, p.Won, p.RemainingSeconds, state.OwnerID)

	if state.Receipts != nil {
		token, err := state.Receipts.Sign(state.OwnerID, p)
		if err != nil {
			logger.Error("GameEnded: Failed to sign receipt: %v", err)
		} else {
			p.Receipt = token
		}
	}

	if state.Results != nil {
		err := state.Results.SaveResult(ctx, ports.GameResult{
			UserID:           state.OwnerID,
			GameID:           p.GameID,
			MatchID:          state.MatchID,
			Won:              p.Won,
			RemainingSeconds: p.RemainingSeconds,
			SecondsUsed:      p.SecondsUsed,
			Rows:             p.Rows,
			Columns:          p.Columns,
			Receipt:          p.Receipt,
		})
		if err != nil {
			logger.Error("GameEnded: Failed to save result: %v", err)
		}
	}

	ev.Payload = p
	return ev
}

// sendSnapshot sends the full game view; nil presences broadcasts to all.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presences []runtime.Presence) {
	data, err := encodeSnapshot(state.Controller.Snapshot(), state.OwnerID, state.Config)
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpSnapshot, data, presences, nil, true); err != nil {
		logger.Error("Failed to send snapshot: %v", err)
	}
}

// sendError sends an error message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := encodeError(code, message)
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state.open(), state.Controller.Phase())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.label = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating, grace %d seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
