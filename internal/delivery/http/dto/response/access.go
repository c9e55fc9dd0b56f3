package response

type AccessResponse struct {
	State        string `json:"state"`
	UnlockAction string `json:"unlock_action"`
	PriceDisplay string `json:"price_display,omitempty"`
}

type ErrorResponse struct {
	Error       string `json:"error"`
	TxSignature string `json:"tx_signature,omitempty"`
}

type PostSummary struct {
	PostID        string `json:"post_id"`
	Title         string `json:"title"`
	AccessRule    string `json:"access_rule"`
	PriceLamports int64  `json:"price_lamports"`
	Currency      string `json:"currency"`
	Sold          bool   `json:"sold"`
}

type PostListResponse struct {
	Posts []PostSummary `json:"posts"`
	Total int64         `json:"total"`
}
