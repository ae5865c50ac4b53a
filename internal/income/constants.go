package income

// Log messages
const (
	LogMsgPayoutCASLost = "Income anchor moved concurrently, payout skipped"
	LogMsgMatureFailed  = "Failed to mark creature matured"
	LogMsgPublishFailed = "Failed to publish income event"
)

const (
	opBegin         = "begin"
	opLockOwner     = "lock owner"
	opListBalances  = "list balances"
	opListExhibited = "list exhibited"
	opAdvance       = "advance payout"
	opLedger        = "insert ledger"
	opCommit        = "commit"
)
