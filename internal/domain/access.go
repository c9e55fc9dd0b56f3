package domain

type AccessState string

const (
	AccessVisible AccessState = "VISIBLE"
	AccessLocked  AccessState = "LOCKED"
)

type UnlockAction string

const (
	ActionNone        UnlockAction = "NONE"
	ActionPurchase    UnlockAction = "PURCHASE"
	ActionSubscribe   UnlockAction = "SUBSCRIBE"
	ActionUpgradeTier UnlockAction = "UPGRADE_TIER"
	ActionBuySellable UnlockAction = "BUY_SELLABLE"
)

// ViewerRelation is computed per request, never persisted on the post.
type ViewerRelation struct {
	ViewerID         string
	IsOwner          bool
	IsSubscribed     bool
	SubscriptionTier *Tier
	HasPurchased     bool
}

type AccessResolution struct {
	State        AccessState
	Action       UnlockAction
	PriceDisplay string
}
