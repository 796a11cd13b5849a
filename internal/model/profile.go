package model

// MatchConfidence is a coarse classification of how strongly a profile is linked.
type MatchConfidence string

const (
	MatchConfidenceHigh   MatchConfidence = "high"
	MatchConfidenceMedium MatchConfidence = "medium"
	MatchConfidenceLow    MatchConfidence = "low"
)

// ConfidenceFor maps a count of distinct identity keys to a confidence tier.
func ConfidenceFor(identityKeys int) MatchConfidence {
	switch {
	case identityKeys >= 4:
		return MatchConfidenceHigh
	case identityKeys >= 2:
		return MatchConfidenceMedium
	default:
		return MatchConfidenceLow
	}
}

// Rank orders confidence tiers so they can be compared (low < medium < high).
func (c MatchConfidence) Rank() int {
	switch c {
	case MatchConfidenceHigh:
		return 2
	case MatchConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Touchpoint is one channel interaction attributed to a profile.
type Touchpoint struct {
	Channel string `json:"channel" yaml:"channel"`
	Detail  string `json:"detail" yaml:"detail"`
}

// HygieneExample is a before/after pair showing what hygiene changed.
type HygieneExample struct {
	Field  string `json:"field" yaml:"field"`
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
	Source string `json:"source" yaml:"source"`
}

// IdentityLink explains a pairing of identifiers on a profile.
type IdentityLink struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Method string `json:"method" yaml:"method"`
}

// UnifiedProfile is the golden record built from one identity cluster.
type UnifiedProfile struct {
	ID string `json:"id" yaml:"id"`

	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`

	CrossIDs `yaml:",inline"`

	LeadScore   int        `json:"leadScore" yaml:"leadScore"`
	Status      string     `json:"status" yaml:"status"`
	Purchases   []Purchase `json:"purchases" yaml:"purchases"`
	TotalSpend  int        `json:"totalSpend" yaml:"totalSpend"`
	LTV         int        `json:"ltv" yaml:"ltv"`
	RecordCount int        `json:"recordCount" yaml:"recordCount"`

	Touchpoints     []Touchpoint     `json:"touchpoints" yaml:"touchpoints"`
	Sources         []string         `json:"sources" yaml:"sources"`
	IngestionTypes  []IngestionType  `json:"ingestionTypes" yaml:"ingestionTypes"`
	DataClasses     []DataClass      `json:"dataClasses" yaml:"dataClasses"`
	HygieneExamples []HygieneExample `json:"hygieneExamples" yaml:"hygieneExamples"`
	IdentityLinks   []IdentityLink   `json:"identityLinks" yaml:"identityLinks"`

	MatchConfidence MatchConfidence `json:"matchConfidence" yaml:"matchConfidence"`
}

// IdentityKeys counts the distinct non-empty identity keys on the profile.
func (p *UnifiedProfile) IdentityKeys() int {
	n := 0
	for _, v := range []string{
		p.Email, p.Phone,
		p.CRMID, p.CustomerID, p.MarketoID, p.CookieID, p.DeviceID, p.LoyaltyID, p.MasterID,
	} {
		if v != "" {
			n++
		}
	}
	return n
}
