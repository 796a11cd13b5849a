package model

// IngestionType describes how a source delivers records into the foundation.
type IngestionType string

const (
	IngestionRealtime IngestionType = "Realtime"
	IngestionBatch    IngestionType = "Batch"
)

// DataClass is the broad kind of data a source contributes.
type DataClass string

const (
	DataClassBehavioral    DataClass = "behavioral"
	DataClassTransactional DataClass = "transactional"
	DataClassMarketing     DataClass = "marketing"
	DataClassEvent         DataClass = "event"
)

// Provenance is the lineage every record carries from the source that produced it.
type Provenance struct {
	Source         string        `json:"source" yaml:"source"`
	SourceID       string        `json:"sourceId" yaml:"sourceId"`
	SourceCategory string        `json:"sourceCategory" yaml:"sourceCategory"`
	IngestionType  IngestionType `json:"ingestionType" yaml:"ingestionType"`
	DataClass      DataClass     `json:"dataClass" yaml:"dataClass"`
}

// Contact holds the person-level fields hygiene works on. An empty string
// means the source did not supply the field.
type Contact struct {
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	City      string `json:"city,omitempty" yaml:"city,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// CrossIDs are the system identifiers used for lineage lookup and identity links.
type CrossIDs struct {
	CRMID      string `json:"crmId,omitempty" yaml:"crmId,omitempty"`
	CustomerID string `json:"customerId,omitempty" yaml:"customerId,omitempty"`
	MarketoID  string `json:"marketoId,omitempty" yaml:"marketoId,omitempty"`
	CookieID   string `json:"cookieId,omitempty" yaml:"cookieId,omitempty"`
	DeviceID   string `json:"deviceId,omitempty" yaml:"deviceId,omitempty"`
	LoyaltyID  string `json:"loyaltyId,omitempty" yaml:"loyaltyId,omitempty"`
	MasterID   string `json:"masterId,omitempty" yaml:"masterId,omitempty"`
}

// SharesID reports whether both sides carry the same non-empty CRM, customer,
// Marketo, cookie or device ID.
func (c CrossIDs) SharesID(o CrossIDs) bool {
	return sameNonEmpty(c.CRMID, o.CRMID) ||
		sameNonEmpty(c.CustomerID, o.CustomerID) ||
		sameNonEmpty(c.MarketoID, o.MarketoID) ||
		sameNonEmpty(c.CookieID, o.CookieID) ||
		sameNonEmpty(c.DeviceID, o.DeviceID)
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}

// RawRecord is one record as it arrives from a source. Records are values;
// nothing downstream mutates a RawRecord in place.
type RawRecord struct {
	Provenance `yaml:",inline"`
	Contact    `yaml:",inline"`
	CrossIDs   `yaml:",inline"`

	// Attributes holds the source-specific payload.
	Attributes Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// CleanedRecord is a RawRecord after hygiene. The embedded record carries the
// normalized values; the originals are kept for before/after comparison.
type CleanedRecord struct {
	RawRecord `yaml:",inline"`

	OriginalEmail  string `json:"originalEmail,omitempty" yaml:"originalEmail,omitempty"`
	OriginalPhone  string `json:"originalPhone,omitempty" yaml:"originalPhone,omitempty"`
	HygieneApplied bool   `json:"_hygieneApplied" yaml:"_hygieneApplied"`
}

// IdentityCluster is the working set of cleaned records the resolver judged to
// be one person. Only the resolver mutates a cluster.
type IdentityCluster struct {
	ID      string          `json:"id" yaml:"id"`
	Records []CleanedRecord `json:"records" yaml:"records"`
}

// Size returns the number of records in the cluster.
func (c *IdentityCluster) Size() int {
	return len(c.Records)
}
