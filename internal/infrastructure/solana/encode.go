package solana

import (
	"encoding/base64"
	"encoding/json"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

type wireLeg struct {
	To       string `json:"to"`
	Lamports int64  `json:"lamports"`
}

type wireTx struct {
	From      string    `json:"from"`
	Blockhash string    `json:"recentBlockhash"`
	Legs      []wireLeg `json:"transfers"`
	Memo      string    `json:"memo,omitempty"`
}

// encodeTransaction serializes the transfer into the base64 payload the
// signing proxy expects. The proxy holds the keys, attaches the signatures
// and forwards the wire-format transaction to the node.
func encodeTransaction(tx *domain.TransferTx) string {
	legs := make([]wireLeg, 0, len(tx.Legs))
	for _, leg := range tx.Legs {
		legs = append(legs, wireLeg{To: leg.ToWallet, Lamports: leg.Lamports})
	}
	raw, _ := json.Marshal(wireTx{
		From:      tx.FromWallet,
		Blockhash: tx.Blockhash,
		Legs:      legs,
		Memo:      tx.Memo,
	})
	return base64.StdEncoding.EncodeToString(raw)
}
