package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	cfg, err := configFromContext(ctx)
	if err != nil {
		logger.Error("InitModule: Invalid runtime config: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameMatchGrid, NewMatch); err != nil {
		return err
	}

	logger.Info("MatchGrid Go module loaded (%dx%d, %ds, receipts=%t).", cfg.Rows, cfg.Columns, cfg.TimeLimitSeconds, cfg.ReceiptSecret != "")
	return nil
}
