package entity

// Couple -.
type Couple struct {
	ID      string    `json:"id"      yaml:"id"`
	Members [2]string `json:"members" yaml:"members"`
}

// Has reports whether userID belongs to the couple.
func (c Couple) Has(userID string) bool {
	return userID != "" && (c.Members[0] == userID || c.Members[1] == userID)
}

// Partner returns the other member, or "" when userID is not a member.
func (c Couple) Partner(userID string) string {
	switch userID {
	case "":
		return ""
	case c.Members[0]:
		return c.Members[1]
	case c.Members[1]:
		return c.Members[0]
	default:
		return ""
	}
}

// Identity is the session context of one peer: who I am, who my partner is, which couple.
type Identity struct {
	LocalID   string `json:"localId"   example:"alice"`
	PartnerID string `json:"partnerId" example:"bob"`
	CoupleID  string `json:"coupleId"  example:"c1"`
}
