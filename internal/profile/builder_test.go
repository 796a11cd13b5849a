package profile

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/model"
)

func newBuilder(seed uint64) *Builder {
	return NewBuilder(rand.New(rand.NewPCG(seed, seed)))
}

func cleaned(raw model.RawRecord, c model.Contact) model.CleanedRecord {
	out := model.CleanedRecord{RawRecord: raw, HygieneApplied: true}
	out.OriginalEmail = raw.Email
	out.OriginalPhone = raw.Phone
	out.Contact = c
	return out
}

func crmRaw() model.RawRecord {
	return model.RawRecord{
		Provenance: model.Provenance{
			Source: "Salesforce CRM", SourceID: "crm", SourceCategory: "Customer-Centric",
			IngestionType: model.IngestionBatch, DataClass: model.DataClassTransactional,
		},
		Contact: model.Contact{
			FirstName: "JANE", LastName: "doe", Email: " Jane.Doe@gmail.com",
			Phone: "555.123.4567", City: "Austin", State: "TX",
		},
		CrossIDs:   model.CrossIDs{CRMID: "SF-100000"},
		Attributes: model.CRMLead{LeadScore: 72, Status: "SQL"},
	}
}

func posRaw() model.RawRecord {
	return model.RawRecord{
		Provenance: model.Provenance{
			Source: "POS / E-commerce", SourceID: "pos",
			IngestionType: model.IngestionRealtime, DataClass: model.DataClassTransactional,
		},
		Contact:  model.Contact{FirstName: "jane", LastName: "Doe", Email: "jane.doe@gmail.com", Phone: "(555) 123-4567"},
		CrossIDs: model.CrossIDs{CustomerID: "SHOP-10000"},
		Attributes: model.POSCustomer{
			Purchases:  []model.Purchase{{Product: "Smart Home Hub Pro", Price: 199}, {Product: "Laptop Stand Ergonomic", Price: 59}},
			TotalSpend: 258,
		},
	}
}

func ga4Raw() model.RawRecord {
	return model.RawRecord{
		Provenance: model.Provenance{
			Source: "Google Analytics 4", SourceID: "ga4",
			IngestionType: model.IngestionRealtime, DataClass: model.DataClassBehavioral,
		},
		Contact:    model.Contact{Email: "jane.doe@gmail.com"},
		CrossIDs:   model.CrossIDs{CookieID: "_ga_123456", DeviceID: "ga_abc"},
		Attributes: model.AnalyticsSession{LastPage: "/checkout", PageViews: 4},
	}
}

func janeCluster() (*model.IdentityCluster, []model.RawRecord) {
	raws := []model.RawRecord{crmRaw(), posRaw(), ga4Raw()}
	cluster := &model.IdentityCluster{
		ID: "cluster-jane",
		Records: []model.CleanedRecord{
			cleaned(raws[0], model.Contact{
				FirstName: "Jane", LastName: "Doe", Email: "jane.doe@gmail.com",
				Phone: "(555) 123-4567", City: "Austin", State: "TX",
			}),
			cleaned(raws[1], model.Contact{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@gmail.com", Phone: "(555) 123-4567"}),
			cleaned(raws[2], model.Contact{Email: "jane.doe@gmail.com"}),
		},
	}
	return cluster, raws
}

func TestBuild_GoldenRecord(t *testing.T) {
	t.Parallel()

	cluster, raws := janeCluster()
	got := newBuilder(1).Build([]*model.IdentityCluster{cluster}, raws)
	require.Len(t, got, 1)
	p := got[0]

	assert.Equal(t, "cluster-jane", p.ID)
	assert.Equal(t, 3, p.RecordCount)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "jane.doe@gmail.com", p.Email)
	assert.Equal(t, "(555) 123-4567", p.Phone)
	assert.Equal(t, "Austin", p.City)
	assert.Equal(t, "TX", p.State)
	assert.Equal(t, "SF-100000", p.CRMID)
	assert.Equal(t, "SHOP-10000", p.CustomerID)
	assert.Equal(t, "_ga_123456", p.CookieID)
	assert.Equal(t, "ga_abc", p.DeviceID)

	assert.Equal(t, 72, p.LeadScore)
	assert.Equal(t, "SQL", p.Status)
	assert.Len(t, p.Purchases, 2)
	assert.Equal(t, 258, p.TotalSpend)
	assert.GreaterOrEqual(t, p.LTV, 258)
	assert.LessOrEqual(t, p.LTV, 3*258)

	assert.Equal(t, []string{"Salesforce CRM", "POS / E-commerce", "Google Analytics 4"}, p.Sources)
	assert.Equal(t, []model.IngestionType{model.IngestionBatch, model.IngestionRealtime}, p.IngestionTypes)
	assert.Equal(t, []model.DataClass{model.DataClassTransactional, model.DataClassBehavioral}, p.DataClasses)

	assert.Equal(t, []model.Touchpoint{
		{Channel: "CRM", Detail: "Status: SQL, Lead Score: 72"},
		{Channel: "Commerce", Detail: "2 purchases, $258 total"},
		{Channel: "Web", Detail: "Visited /checkout, 4 page views"},
	}, p.Touchpoints)

	assert.Equal(t, []model.IdentityLink{
		{From: "CRM ID: SF-100000", To: "Email: jane.doe@gmail.com", Method: "Email Match"},
		{From: "Cookie: _ga_123456", To: "Email: jane.doe@gmail.com", Method: "Login Event"},
		{From: "Device: ga_abc", To: "CRM: SF-100000", Method: "Deterministic ID Stitch"},
	}, p.IdentityLinks)

	// email, phone, crm, customer, cookie, device
	assert.Equal(t, 6, p.IdentityKeys())
	assert.Equal(t, model.MatchConfidenceHigh, p.MatchConfidence)
}

func TestBuild_HygieneExamples(t *testing.T) {
	t.Parallel()

	cluster, raws := janeCluster()
	p := newBuilder(1).Build([]*model.IdentityCluster{cluster}, raws)[0]

	assert.Equal(t, []model.HygieneExample{
		{Field: "Phone", Before: "555.123.4567", After: "(555) 123-4567", Source: "Salesforce CRM"},
		{Field: "Email", Before: " Jane.Doe@gmail.com", After: "jane.doe@gmail.com", Source: "Salesforce CRM"},
		{Field: "First Name", Before: "JANE", After: "Jane", Source: "Salesforce CRM"},
		{Field: "First Name", Before: "jane", After: "Jane", Source: "POS / E-commerce"},
	}, p.HygieneExamples)
}

func TestBuild_Placeholders(t *testing.T) {
	t.Parallel()

	var r model.CleanedRecord
	r.Source = "Data Lake"
	r.SourceID = "dataLake"
	r.DeviceID = "dl_1"
	r.Attributes = model.LakeEvent{EventType: "click"}

	p := newBuilder(7).Build([]*model.IdentityCluster{{ID: "c1", Records: []model.CleanedRecord{r}}}, nil)[0]

	assert.Equal(t, UnknownFirstName, p.FirstName)
	assert.Equal(t, UnknownLastName, p.LastName)
	assert.Equal(t, "Customer", p.Status)
	assert.NotEmpty(t, p.City)
	assert.NotEmpty(t, p.State)
	assert.GreaterOrEqual(t, p.LeadScore, 30)
	assert.LessOrEqual(t, p.LeadScore, 80)
	assert.GreaterOrEqual(t, p.TotalSpend, 50)
	assert.LessOrEqual(t, p.TotalSpend, 2000)
	assert.Empty(t, p.Purchases)
	assert.NotNil(t, p.Purchases)
	assert.Empty(t, p.Touchpoints)
	assert.Empty(t, p.HygieneExamples)
	assert.Empty(t, p.IdentityLinks)
	assert.Equal(t, model.MatchConfidenceLow, p.MatchConfidence)
}

func TestBuild_OrderStatusFallback(t *testing.T) {
	t.Parallel()

	var r model.CleanedRecord
	r.Source = "Order Management"
	r.Email = "a@b.com"
	r.CustomerID = "OMS-10000"
	r.Attributes = model.Order{OrderID: "ORD-1", Status: "Shipped"}

	p := newBuilder(1).Build([]*model.IdentityCluster{{ID: "c", Records: []model.CleanedRecord{r}}}, nil)[0]
	assert.Equal(t, "Shipped", p.Status)
	assert.Equal(t, model.MatchConfidenceMedium, p.MatchConfidence)
}

func TestTouchpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attrs model.Attributes
		want  *model.Touchpoint
	}{
		{model.WebEvent{PageURL: "/pricing"}, &model.Touchpoint{Channel: "Web", Detail: "Visited /pricing, 1 page views"}},
		{model.AnalyticsSession{}, &model.Touchpoint{Channel: "Web", Detail: "Visited /home, 1 page views"}},
		{model.PaidClick{Campaign: "Retargeting", AdPlatform: "Meta Ads"}, &model.Touchpoint{Channel: "Paid", Detail: "Clicked Retargeting on Meta Ads"}},
		{model.MarketoLead{EmailOpens: 12, LastCampaign: "Welcome Series"}, &model.Touchpoint{Channel: "Email", Detail: "12 opens, campaign: Welcome Series"}},
		{model.EmailEngagement{Opens: 3}, &model.Touchpoint{Channel: "Email", Detail: "3 opens, campaign: N/A"}},
		{model.MobileEvent{Action: "tap", ScreenName: "Cart", OS: "iOS 17"}, &model.Touchpoint{Channel: "Mobile", Detail: "tap on Cart (iOS 17)"}},
		{model.SupportTicket{Subject: "Returns", Priority: "High", CSATScore: 4}, &model.Touchpoint{Channel: "Support", Detail: "Ticket: Returns (High), CSAT: 4"}},
		{model.Call{Disposition: "Resolved", CallDuration: 150}, &model.Touchpoint{Channel: "Call Center", Detail: "Resolved, 3min call"}},
		{model.LoyaltyAccount{Tier: "Gold", PointsBalance: 1200}, &model.Touchpoint{Channel: "Loyalty", Detail: "Gold tier, 1200 points"}},
		{model.Firmographics{}, nil},
		{model.CleanRoomMatch{}, nil},
		{nil, nil},
	}
	for _, tt := range tests {
		var r model.CleanedRecord
		r.Attributes = tt.attrs
		got := touchpoints([]model.CleanedRecord{r})
		if tt.want == nil {
			assert.Empty(t, got, "%T", tt.attrs)
			continue
		}
		require.Len(t, got, 1)
		assert.Equal(t, *tt.want, got[0])
	}
}

func TestIdentityLinks_MasterAndLoyalty(t *testing.T) {
	t.Parallel()

	p := &model.UnifiedProfile{Email: "a@b.com"}
	p.CRMID = "SF-1"
	p.MasterID = "MDM-1"
	p.LoyaltyID = "LYL-1"
	p.MarketoID = "MKT-1"

	got := identityLinks(p)
	methods := make([]string, 0, len(got))
	for _, l := range got {
		methods = append(methods, l.Method)
	}
	assert.Equal(t, []string{"Email Match", "Email Match", "Email Match", "Master ID Link"}, methods)
	assert.Equal(t, "MDM: MDM-1", got[3].From)
	assert.Equal(t, "CRM: SF-1", got[3].To)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	cluster, raws := janeCluster()
	clusters := []*model.IdentityCluster{cluster, {ID: "empty-ish", Records: cluster.Records[2:]}}
	a := newBuilder(9).Build(clusters, raws)
	b := newBuilder(9).Build(clusters, raws)
	assert.Equal(t, a, b)
}

// Every profile reports exactly its cluster's size, across seeds and modes.
func TestBuild_RecordCountMatchesCluster(t *testing.T) {
	t.Parallel()

	cat := catalog.MustDefault()
	ids := []string{"crm", "pos", "ga4", "loyalty", "customerMDM", "marketo", "callCenter"}

	for seed := uint64(1); seed <= 15; seed++ {
		g := generate.New(cat, seed)
		raw := g.ApplyEdgeCases(g.GenerateAll(ids, 8), generate.EdgeCases{DuplicateCRM: true})
		clean := hygiene.Apply(raw, hygiene.DefaultRules())

		for _, mode := range []identity.Mode{identity.Deterministic, identity.Probabilistic} {
			clusters := identity.Resolve(clean, mode)
			profiles := NewBuilder(g.Rand()).Build(clusters, raw)
			require.Len(t, profiles, len(clusters))

			total := 0
			for i, p := range profiles {
				assert.Equal(t, clusters[i].Size(), p.RecordCount, "seed %d", seed)
				assert.Equal(t, clusters[i].ID, p.ID)
				assert.Equal(t, model.ConfidenceFor(p.IdentityKeys()), p.MatchConfidence)
				total += p.RecordCount
			}
			assert.Equal(t, len(clean), total)
		}
	}
}
