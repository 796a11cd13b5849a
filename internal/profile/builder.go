// Package profile merges identity clusters into unified golden-record profiles.
package profile

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/model"
)

// Placeholders used when no record in a cluster carries a name.
const (
	UnknownFirstName = "Unknown"
	UnknownLastName  = "Profile"
	defaultStatus    = "Customer"
)

// Builder turns clusters into profiles. Its random stream only feeds the demo
// fallbacks for missing spend, lead score and location.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder creates a Builder drawing fallbacks from rng.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Build produces one profile per cluster, in cluster order. raw is the full
// pre-hygiene batch, used to show what hygiene changed.
func (b *Builder) Build(clusters []*model.IdentityCluster, raw []model.RawRecord) []model.UnifiedProfile {
	lineage := newLineage(raw)
	out := make([]model.UnifiedProfile, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, b.buildOne(c, lineage))
	}

	zap.L().Debug("profile: built profiles",
		zap.Int("clusters", len(clusters)),
		zap.Int("profiles", len(out)),
	)
	return out
}

func (b *Builder) buildOne(c *model.IdentityCluster, lineage *lineage) model.UnifiedProfile {
	p := model.UnifiedProfile{
		ID:          c.ID,
		RecordCount: c.Size(),
	}

	// First writer wins for every scalar.
	for _, r := range c.Records {
		firstNonEmpty(&p.FirstName, r.FirstName)
		firstNonEmpty(&p.LastName, r.LastName)
		firstNonEmpty(&p.Email, r.Email)
		firstNonEmpty(&p.Phone, r.Phone)
		firstNonEmpty(&p.City, r.City)
		firstNonEmpty(&p.State, r.State)
		firstNonEmpty(&p.CRMID, r.CRMID)
		firstNonEmpty(&p.CustomerID, r.CustomerID)
		firstNonEmpty(&p.MarketoID, r.MarketoID)
		firstNonEmpty(&p.CookieID, r.CookieID)
		firstNonEmpty(&p.DeviceID, r.DeviceID)
		firstNonEmpty(&p.LoyaltyID, r.LoyaltyID)
		firstNonEmpty(&p.MasterID, r.MasterID)

		switch a := r.Attributes.(type) {
		case model.CRMLead:
			if p.LeadScore == 0 {
				p.LeadScore = a.LeadScore
			}
			firstNonEmpty(&p.Status, a.Status)
		case model.Order:
			firstNonEmpty(&p.Status, a.Status)
		case model.POSCustomer:
			p.Purchases = append(p.Purchases, a.Purchases...)
		}
	}

	firstNonEmpty(&p.FirstName, UnknownFirstName)
	firstNonEmpty(&p.LastName, UnknownLastName)
	if p.City == "" || p.State == "" {
		city, state := generate.RandomPlace(b.rng)
		firstNonEmpty(&p.City, city)
		firstNonEmpty(&p.State, state)
	}
	if p.LeadScore == 0 {
		p.LeadScore = b.intn(30, 80)
	}
	firstNonEmpty(&p.Status, defaultStatus)

	if p.Purchases == nil {
		p.Purchases = []model.Purchase{}
	}
	for _, pu := range p.Purchases {
		p.TotalSpend += pu.Price
	}
	if p.TotalSpend == 0 {
		p.TotalSpend = b.intn(50, 2000)
	}
	p.LTV = int(math.Round(float64(p.TotalSpend) * (1 + b.rng.Float64()*2)))

	p.Touchpoints = touchpoints(c.Records)
	p.Sources, p.IngestionTypes, p.DataClasses = lineageSets(c.Records)
	p.HygieneExamples = hygieneExamples(c.Records, lineage)
	p.IdentityLinks = identityLinks(&p)
	p.MatchConfidence = model.ConfidenceFor(p.IdentityKeys())
	return p
}

func (b *Builder) intn(lo, hi int) int {
	return lo + b.rng.IntN(hi-lo+1)
}

func firstNonEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// touchpoints emits one channel entry per record whose source has a known
// channel. Other sources contribute nothing.
func touchpoints(records []model.CleanedRecord) []model.Touchpoint {
	out := []model.Touchpoint{}
	for _, r := range records {
		var tp model.Touchpoint
		switch a := r.Attributes.(type) {
		case model.AnalyticsSession:
			page, views := a.LastPage, a.PageViews
			if page == "" {
				page = "/home"
			}
			if views == 0 {
				views = 1
			}
			tp = model.Touchpoint{Channel: "Web", Detail: fmt.Sprintf("Visited %s, %d page views", page, views)}
		case model.WebEvent:
			page := a.PageURL
			if page == "" {
				page = "/home"
			}
			tp = model.Touchpoint{Channel: "Web", Detail: fmt.Sprintf("Visited %s, 1 page views", page)}
		case model.PaidClick:
			tp = model.Touchpoint{Channel: "Paid", Detail: fmt.Sprintf("Clicked %s on %s", a.Campaign, a.AdPlatform)}
		case model.MarketoLead:
			tp = model.Touchpoint{Channel: "Email", Detail: fmt.Sprintf("%d opens, campaign: %s", a.EmailOpens, orNA(a.LastCampaign))}
		case model.EmailEngagement:
			tp = model.Touchpoint{Channel: "Email", Detail: fmt.Sprintf("%d opens, campaign: %s", a.Opens, orNA(a.CampaignID))}
		case model.CRMLead:
			tp = model.Touchpoint{Channel: "CRM", Detail: fmt.Sprintf("Status: %s, Lead Score: %d", a.Status, a.LeadScore)}
		case model.POSCustomer:
			tp = model.Touchpoint{Channel: "Commerce", Detail: fmt.Sprintf("%d purchases, $%d total", len(a.Purchases), a.TotalSpend)}
		case model.MobileEvent:
			tp = model.Touchpoint{Channel: "Mobile", Detail: fmt.Sprintf("%s on %s (%s)", a.Action, a.ScreenName, a.OS)}
		case model.SupportTicket:
			tp = model.Touchpoint{Channel: "Support", Detail: fmt.Sprintf("Ticket: %s (%s), CSAT: %d", a.Subject, a.Priority, a.CSATScore)}
		case model.Call:
			minutes := int(math.Round(float64(a.CallDuration) / 60))
			tp = model.Touchpoint{Channel: "Call Center", Detail: fmt.Sprintf("%s, %dmin call", a.Disposition, minutes)}
		case model.LoyaltyAccount:
			tp = model.Touchpoint{Channel: "Loyalty", Detail: fmt.Sprintf("%s tier, %d points", a.Tier, a.PointsBalance)}
		default:
			continue
		}
		out = append(out, tp)
	}
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// lineageSets returns the distinct source names, ingestion types and data
// classes of records in first-seen order.
func lineageSets(records []model.CleanedRecord) ([]string, []model.IngestionType, []model.DataClass) {
	sources := []string{}
	ingestion := []model.IngestionType{}
	classes := []model.DataClass{}
	seenSource := make(map[string]bool)
	seenIngestion := make(map[model.IngestionType]bool)
	seenClass := make(map[model.DataClass]bool)

	for _, r := range records {
		if !seenSource[r.Source] {
			seenSource[r.Source] = true
			sources = append(sources, r.Source)
		}
		if r.IngestionType != "" && !seenIngestion[r.IngestionType] {
			seenIngestion[r.IngestionType] = true
			ingestion = append(ingestion, r.IngestionType)
		}
		if r.DataClass != "" && !seenClass[r.DataClass] {
			seenClass[r.DataClass] = true
			classes = append(classes, r.DataClass)
		}
	}
	return sources, ingestion, classes
}

// identityLinks lists the illustrative pairings present on p.
func identityLinks(p *model.UnifiedProfile) []model.IdentityLink {
	links := []model.IdentityLink{}
	add := func(ok bool, from, to, method string) {
		if ok {
			links = append(links, model.IdentityLink{From: from, To: to, Method: method})
		}
	}
	email, crm := p.Email != "", p.CRMID != ""
	add(crm && email, "CRM ID: "+p.CRMID, "Email: "+p.Email, "Email Match")
	add(p.CookieID != "" && email, "Cookie: "+p.CookieID, "Email: "+p.Email, "Login Event")
	add(p.DeviceID != "" && crm, "Device: "+p.DeviceID, "CRM: "+p.CRMID, "Deterministic ID Stitch")
	add(p.MarketoID != "" && email, "Marketo: "+p.MarketoID, "Email: "+p.Email, "Email Match")
	add(p.LoyaltyID != "" && email, "Loyalty: "+p.LoyaltyID, "Email: "+p.Email, "Email Match")
	add(p.MasterID != "" && crm, "MDM: "+p.MasterID, "CRM: "+p.CRMID, "Master ID Link")
	return links
}
