package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matchgrid/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageWriter is the part of runtime.NakamaModule the result store needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaResultStore writes finished games to Nakama storage, one object per
// game keyed by game id, readable by the owning user only.
type NakamaResultStore struct {
	nk  storageWriter
	now func() time.Time
}

// NewNakamaResultStore creates a new result store adapter.
func NewNakamaResultStore(nk storageWriter) *NakamaResultStore {
	return &NakamaResultStore{nk: nk, now: time.Now}
}

// SaveResult stores the result under ResultCollection.
func (a *NakamaResultStore) SaveResult(ctx context.Context, result ports.GameResult) error {
	if result.UserID == "" {
		return fmt.Errorf("userID is required")
	}
	if result.GameID == "" {
		return fmt.Errorf("gameID is required")
	}
	if result.EndedAt.IsZero() {
		result.EndedAt = a.now().UTC()
	}

	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      ResultCollection,
			Key:             result.GameID,
			UserID:          result.UserID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to write game result: %w", err)
	}
	return nil
}

var _ ports.ResultStore = (*NakamaResultStore)(nil)
