package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"matchgrid/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VerifyReceiptResponse carries the claims of a valid receipt.
type VerifyReceiptResponse struct {
	GameID           string `json:"game_id"`
	UserID           string `json:"user_id"`
	Won              bool   `json:"won"`
	RemainingSeconds int    `json:"remaining_seconds"`
	SecondsUsed      int    `json:"seconds_used"`
	Rows             int    `json:"rows"`
	Columns          int    `json:"columns"`
	IssuedAt         int64  `json:"issued_at"`
}

// rpcVerifyReceipt checks a receipt attached to a game_ended message.
// Payload: {"receipt": "<token>"}
func rpcVerifyReceipt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		Receipt string `json:"receipt"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Receipt == "" {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	cfg, err := configFromContext(ctx)
	if err != nil {
		logger.Error("VerifyReceipt: Invalid runtime config: %v", err)
		return "", runtime.NewError("Server misconfigured", codeInternal)
	}
	if cfg.ReceiptSecret == "" {
		return "", runtime.NewError("Receipts are disabled", codeFailedPrecondition)
	}

	r, err := app.NewReceiptSigner(cfg.ReceiptSecret).Verify(req.Receipt)
	if err != nil {
		logger.Warn("VerifyReceipt: %v", err)
		return "", runtime.NewError("Invalid receipt", codeInvalidArgument)
	}

	b, _ := json.Marshal(VerifyReceiptResponse{
		GameID:           r.GameID,
		UserID:           r.UserID,
		Won:              r.Won,
		RemainingSeconds: r.RemainingSeconds,
		SecondsUsed:      r.SecondsUsed,
		Rows:             r.Rows,
		Columns:          r.Columns,
		IssuedAt:         r.IssuedAt.Unix(),
	})
	return string(b), nil
}
