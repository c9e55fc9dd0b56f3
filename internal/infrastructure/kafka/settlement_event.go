package kafka

type SettlementEvent struct {
	Kind        string `json:"kind"` // purchase, subscription, bid, auction_sold
	PostID      string `json:"post_id,omitempty"`
	CreatorID   string `json:"creator_id,omitempty"`
	BuyerID     string `json:"buyer_id"`
	Amount      int64  `json:"amount_lamports"`
	Currency    string `json:"currency"`
	TxSignature string `json:"tx_signature"`
	Status      string `json:"status"`
}
