package nakama

import (
	"errors"
	"fmt"
	"math"

	"matchgrid/internal/app"
	"matchgrid/internal/config"
	"matchgrid/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var errBadPayload = errors.New("bad payload")

var eventOpCodes = map[app.EventKind]int64{
	app.EventGameStarted:     OpGameStarted,
	app.EventCardRevealed:    OpCardRevealed,
	app.EventInputLocked:     OpInputLocked,
	app.EventPairMatched:     OpPairMatched,
	app.EventPairMismatched:  OpPairMismatched,
	app.EventInputUnlocked:   OpInputUnlocked,
	app.EventTimerTicked:     OpTimerTicked,
	app.EventGamePaused:      OpGamePaused,
	app.EventGameResumed:     OpGameResumed,
	app.EventGameEnded:       OpGameEnded,
	app.EventGameReset:       OpGameReset,
	app.EventRestartDeclined: OpRestartDeclined,
}

var marshalOptions = protojson.MarshalOptions{EmitUnpopulated: true}

// encodeEvent renders an app event as the op code and JSON body sent to clients.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	fields, err := eventFields(ev)
	if err != nil {
		return 0, nil, err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode %s: %w", ev.Kind, err)
	}
	return opCode, data, nil
}

func eventFields(ev app.Event) (map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return map[string]interface{}{
			"game_id":            p.GameID,
			"rows":               p.Rows,
			"columns":            p.Columns,
			"time_limit_seconds": p.TimeLimitSeconds,
			"cards":              cardsValue(p.Cards),
		}, nil
	case app.CardRevealedPayload:
		return map[string]interface{}{"index": p.Index, "identity": int(p.Identity)}, nil
	case app.InputLockedPayload:
		return map[string]interface{}{"first": p.First, "second": p.Second}, nil
	case app.PairMatchedPayload:
		return map[string]interface{}{
			"first":         p.First,
			"second":        p.Second,
			"identity":      int(p.Identity),
			"matched_pairs": p.MatchedPairs,
			"total_pairs":   p.TotalPairs,
		}, nil
	case app.PairMismatchedPayload:
		return map[string]interface{}{"first": p.First, "second": p.Second}, nil
	case app.InputUnlockedPayload:
		return map[string]interface{}{}, nil
	case app.TimerTickedPayload:
		return map[string]interface{}{"remaining_seconds": p.RemainingSeconds}, nil
	case app.GamePausedPayload:
		return map[string]interface{}{"remaining_seconds": p.RemainingSeconds}, nil
	case app.GameResumedPayload:
		return map[string]interface{}{"remaining_seconds": p.RemainingSeconds}, nil
	case app.GameEndedPayload:
		m := map[string]interface{}{
			"game_id":           p.GameID,
			"won":               p.Won,
			"remaining_seconds": p.RemainingSeconds,
			"seconds_used":      p.SecondsUsed,
			"matched_pairs":     p.MatchedPairs,
			"total_pairs":       p.TotalPairs,
			"rows":              p.Rows,
			"columns":           p.Columns,
		}
		if p.Receipt != "" {
			m["receipt"] = p.Receipt
		}
		return m, nil
	case app.GameResetPayload:
		return map[string]interface{}{"previous_game_id": p.PreviousGameID, "game_id": p.GameID}, nil
	case app.RestartDeclinedPayload:
		return map[string]interface{}{"game_id": p.GameID}, nil
	default:
		return nil, fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Kind)
	}
}

func cardsValue(cards []domain.CardView) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		m := map[string]interface{}{"index": c.Index, "state": c.State}
		if c.Identity != nil {
			m["identity"] = int(*c.Identity)
		}
		out[i] = m
	}
	return out
}

// encodeSnapshot renders the full view sent to a presence when it joins.
func encodeSnapshot(snap app.Snapshot, ownerID string, cfg config.GameConfig) ([]byte, error) {
	return marshalFields(map[string]interface{}{
		"game_id":            snap.GameID,
		"owner_id":           ownerID,
		"phase":              string(snap.Phase),
		"reveal":             string(snap.Reveal),
		"rows":               snap.Rows,
		"columns":            snap.Columns,
		"time_limit_seconds": snap.TimeLimitSeconds,
		"remaining_seconds":  snap.RemainingSeconds,
		"input_locked":       snap.InputLocked,
		"won":                snap.Won,
		"matched_pairs":      snap.MatchedPairs,
		"total_pairs":        snap.TotalPairs,
		"cards":              cardsValue(snap.Cards),
		"width":              cfg.Width,
		"height":             cfg.Height,
		"theme": map[string]interface{}{
			"background_color":      cfg.Theme.BackgroundColor,
			"card_background_color": cfg.Theme.CardBackgroundColor,
			"card_text_color":       cfg.Theme.CardTextColor,
			"font":                  cfg.Theme.Font,
		},
	})
}

func encodeError(code int, message string) ([]byte, error) {
	return marshalFields(map[string]interface{}{"code": code, "message": message})
}

// encodeLabel builds the match label used by match listing queries.
func encodeLabel(open bool, phase domain.Phase) (string, error) {
	data, err := marshalFields(map[string]interface{}{
		"open":  open,
		"game":  labelGame,
		"phase": string(phase),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalFields(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return marshalOptions.Marshal(s)
}

func decodeFields(data []byte) (map[string]*structpb.Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", errBadPayload)
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return s.GetFields(), nil
}

// decodeReveal reads {"index": n}. Range checks are left to the controller.
func decodeReveal(data []byte) (int, error) {
	fields, err := decodeFields(data)
	if err != nil {
		return 0, err
	}
	v, ok := fields["index"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: index must be a number", errBadPayload)
	}
	n := v.NumberValue
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: index must be an integer", errBadPayload)
	}
	return int(n), nil
}

// decodeRestart reads {"confirmed": bool}.
func decodeRestart(data []byte) (bool, error) {
	fields, err := decodeFields(data)
	if err != nil {
		return false, err
	}
	v, ok := fields["confirmed"].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: confirmed must be a boolean", errBadPayload)
	}
	return v.BoolValue, nil
}
