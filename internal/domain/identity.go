package domain

// Identity is the authenticated caller acting on orders.
type Identity struct {
	UserID string
	Actor  Actor
	ShopID string
}

// TrackingRole maps the caller to a tracking role. Only customers and agents track.
func (i Identity) TrackingRole() (Role, bool) {
	switch i.Actor {
	case ActorCustomer:
		return RoleCustomer, true
	case ActorAgent:
		return RoleAgent, true
	default:
		return "", false
	}
}
