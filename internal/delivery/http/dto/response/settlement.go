package response

type DistributionResponse struct {
	CreatorWallet  string `json:"creator_wallet"`
	CreatorAmount  int64  `json:"creator_amount"`
	PlatformAmount int64  `json:"platform_amount"`
	ReferrerWallet string `json:"referrer_wallet,omitempty"`
	ReferrerAmount int64  `json:"referrer_amount,omitempty"`
}

type ReceiptResponse struct {
	AttemptID    string               `json:"attempt_id"`
	TxSignature  string               `json:"tx_signature,omitempty"`
	Status       string               `json:"status"`
	PricePaid    int64                `json:"price_paid"`
	Currency     string               `json:"currency"`
	Distribution DistributionResponse `json:"distribution"`
}
