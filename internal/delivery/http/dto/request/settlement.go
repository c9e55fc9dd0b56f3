package request

type PurchaseRequest struct {
	PostID      string `json:"post_id"`
	BuyerID     string `json:"buyer_id"`
	BuyerWallet string `json:"buyer_wallet"`
}

type SubscribeRequest struct {
	CreatorID     string `json:"creator_id"`
	SubscriberID  string `json:"subscriber_id"`
	BuyerWallet   string `json:"buyer_wallet"`
	Tier          string `json:"tier"`
	PriceLamports int64  `json:"price_lamports"`
	DurationDays  int    `json:"duration_days,omitempty"`
}

type BidRequest struct {
	PostID       string `json:"post_id"`
	BidderID     string `json:"bidder_id"`
	BidderWallet string `json:"bidder_wallet"`
	Amount       int64  `json:"amount"`
}

type RetryRecordingRequest struct {
	PostID      string `json:"post_id"`
	BuyerID     string `json:"buyer_id"`
	BuyerWallet string `json:"buyer_wallet"`
	TxSignature string `json:"tx_signature"`
	PricePaid   int64  `json:"price_paid"`
}
