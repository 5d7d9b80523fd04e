package nakama

const (
	// MatchNameMatchGrid is the authoritative match handler name registered with Nakama.
	MatchNameMatchGrid = "matchgrid"

	// RpcCreateGame creates a match with optional grid settings.
	RpcCreateGame = "create_game"
	// RpcQuickMatch finds an open lobby or creates one.
	RpcQuickMatch = "quick_match"
	// RpcVerifyReceipt checks a signed game-result receipt.
	RpcVerifyReceipt = "verify_receipt"

	// ResultCollection is the storage collection for finished games.
	ResultCollection = "matchgrid_results"

	labelGame = "matchgrid"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStart       int64 = 1
	OpReveal      int64 = 2
	OpFocusLost   int64 = 3
	OpFocusGained int64 = 4
	OpRestart     int64 = 5

	// Server -> Client events
	OpSnapshot        int64 = 101
	OpGameStarted     int64 = 102
	OpCardRevealed    int64 = 103
	OpInputLocked     int64 = 104
	OpPairMatched     int64 = 105
	OpPairMismatched  int64 = 106
	OpInputUnlocked   int64 = 107
	OpTimerTicked     int64 = 108
	OpGamePaused      int64 = 109
	OpGameResumed     int64 = 110
	OpGameEnded       int64 = 111
	OpGameReset       int64 = 112
	OpRestartDeclined int64 = 113
	OpError           int64 = 199
)

// Error codes carried by OpError messages.
const (
	ErrCodeNotOwner       = 1
	ErrCodeBadRequest     = 2
	ErrCodeInvalidCommand = 3
)

// gRPC status codes used for RPC errors.
const (
	codeInvalidArgument    = 3
	codeFailedPrecondition = 9
	codeInternal           = 13
)
