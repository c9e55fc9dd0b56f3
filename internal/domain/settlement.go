package domain

import "context"

type SettlementStatus string

const (
	SettlementBuilding  SettlementStatus = "BUILDING"
	SettlementSimulated SettlementStatus = "SIMULATED"
	SettlementSubmitted SettlementStatus = "SUBMITTED"
	SettlementConfirmed SettlementStatus = "CONFIRMED"
	SettlementRejected  SettlementStatus = "REJECTED"
	SettlementExpired   SettlementStatus = "EXPIRED"
	SettlementRecorded  SettlementStatus = "RECORDED"
	SettlementFailed    SettlementStatus = "FAILED"
)

type SignatureStatus string

const (
	SignaturePending   SignatureStatus = "PENDING"
	SignatureConfirmed SignatureStatus = "CONFIRMED"
	SignatureFailed    SignatureStatus = "FAILED"
	SignatureNotFound  SignatureStatus = "NOT_FOUND"
)

type TransferLeg struct {
	ToWallet string
	Lamports int64
}

// TransferTx is the value-transfer instruction set handed to the ledger.
// The blockhash is the anti-replay anchor; it expires and must be fetched
// fresh immediately before every submission attempt.
type TransferTx struct {
	FromWallet string
	Blockhash  string
	Legs       []TransferLeg
	Memo       string
}

// LedgerClient talks to the external ledger. Implementations must map
// transport failures to TransientNetworkError and definitive rejections to
// LedgerRejectedError so the orchestrator can tell them apart.
type LedgerClient interface {
	GetLatestBlockhash(ctx context.Context) (string, error)
	Simulate(ctx context.Context, tx *TransferTx) error
	Submit(ctx context.Context, tx *TransferTx) (string, error)
	GetSignatureStatus(ctx context.Context, signature string) (SignatureStatus, error)
}
