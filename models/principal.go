package models

// Principal is the authenticated caller. Token is the raw bearer credential,
// forwarded unchanged to the reservation store.
type Principal struct {
	Subject   string
	Username  string
	CompanyID CompanyID
	Token     string
}

// Actor is the name written into audit fields.
func (p Principal) Actor() string {
	if p.Username != "" {
		return p.Username
	}
	return "system"
}
