package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"matchgrid/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateGameResponse is returned by the create_game RPC.
type CreateGameResponse struct {
	MatchID string `json:"match_id"`
}

// matchCreator is the part of runtime.NakamaModule used to create matches.
type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateGame, rpcCreateGame); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVerifyReceipt, rpcVerifyReceipt)
}

// configFromContext applies MATCHGRID_* runtime env values to the defaults.
func configFromContext(ctx context.Context) (*config.GameConfig, error) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if env == nil {
		// Never fall back to the process environment.
		env = map[string]string{}
	}
	return config.FromEnv(config.Default(), env)
}

func rpcCreateGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return createGame(ctx, logger, nk, payload)
}

// createGame validates optional grid settings and creates a match for them.
// Payload: {"rows": 4, "columns": 4, "time_limit_seconds": 60} (all optional).
func createGame(ctx context.Context, logger runtime.Logger, nk matchCreator, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	params := map[string]interface{}{}
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &params); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}

	base, err := configFromContext(ctx)
	if err != nil {
		logger.Error("CreateGame [User:%s]: Invalid runtime config: %v", userID, err)
		return "", runtime.NewError("Server misconfigured", codeInternal)
	}
	cfg, err := config.FromParams(base, params)
	if err != nil {
		logger.Warn("CreateGame [User:%s]: Rejected params %v: %v", userID, params, err)
		if errors.Is(err, config.ErrInvalidConfig) {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameMatchGrid, cfg.Params())
	if err != nil {
		logger.Error("CreateGame [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("Failed to create match", codeInternal)
	}

	logger.Info("CreateGame [User:%s]: Created %dx%d match %s", userID, cfg.Rows, cfg.Columns, matchID)
	b, _ := json.Marshal(CreateGameResponse{MatchID: matchID})
	return string(b), nil
}
