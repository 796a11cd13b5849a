package generate

import (
	"fmt"

	"github.com/sells-group/mdf/internal/model"
)

// recordTemplate builds record i of count for one source. Provenance is filled in
// by Generate from the catalog.
type recordTemplate func(g *Generator, i, count int) model.RawRecord

var templates = map[string]recordTemplate{
	// Digital properties
	"webAppEvents":     webAppEvents,
	"mobileAppEvents":  mobileAppEvents,
	"productTelemetry": productTelemetry,

	// Data infrastructure
	"edw":         edw,
	"dataLake":    dataLake,
	"loyalty":     loyalty,
	"customerMDM": customerMDM,
	"billing":     billing,
	"oms":         oms,

	// Customer-centric
	"crm":        crm,
	"pos":        pos,
	"support":    support,
	"callCenter": callCenter,

	// Marketing & advertising
	"emailEngagement":  emailEngagement,
	"paidSocial":       paidSocial,
	"adImpressions":    adImpressions,
	"offlineCampaigns": offlineCampaigns,
	"marketo":          marketo,

	// Identity & enrichment
	"identityGraph": identityGraph,
	"enrichment":    enrichment,
	"cleanRoom":     cleanRoom,

	// Analytics & measurement
	"ga4":             ga4,
	"attribution":     attribution,
	"experimentation": experimentation,
}

// seqID renders the sequential numeric suffix shared by most source keys.
func seqID(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, 10000+i*111)
}

func crmID(i int) string {
	return fmt.Sprintf("SF-%d", 100000+i*1111)
}

func webAppEvents(g *Generator, i, count int) model.RawRecord {
	fn, ln := person(i)
	r := model.RawRecord{
		CrossIDs: model.CrossIDs{
			DeviceID: "web_" + g.newID(),
			CookieID: fmt.Sprintf("_wa_%d", g.intn(100000, 999999)),
		},
	}
	if loggedIn(i, count, 0.6) {
		r.Email = g.messyEmail(fn, ln, i)
	}
	r.Attributes = model.WebEvent{
		EventName: pick(g, []string{"click", "scroll", "form_submit", "page_view", "add_to_cart"}),
		PageURL:   pick(g, []string{"/products", "/checkout", "/blog", "/account", "/pricing"}),
		Timestamp: g.timestamp(7 * day),
	}
	return r
}

func mobileAppEvents(g *Generator, i, count int) model.RawRecord {
	fn, ln := person(i)
	r := model.RawRecord{
		CrossIDs: model.CrossIDs{DeviceID: "mob_" + g.newID()},
	}
	push := "pt_" + g.newID()
	if loggedIn(i, count, 0.5) {
		r.Email = g.messyEmail(fn, ln, i)
	}
	r.Attributes = model.MobileEvent{
		PushToken:  push,
		ScreenName: pick(g, []string{"Home", "Feed", "Profile", "Settings", "Cart"}),
		Action:     pick(g, []string{"tap", "swipe", "purchase", "share", "bookmark"}),
		OS:         pick(g, []string{"iOS 17", "Android 14"}),
		Timestamp:  g.timestamp(7 * day),
	}
	return r
}

func productTelemetry(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{Email: g.messyEmail(fn, ln, i)},
		Attributes: model.ProductUsage{
			UserID:          fmt.Sprintf("usr_%d", 10000+i*111),
			FeatureName:     pick(g, []string{"Dashboard", "Reports", "API", "Integrations", "Settings"}),
			UsageCount:      g.intn(1, 500),
			SessionDuration: g.intn(30, 3600),
			PlanTier:        pick(g, []string{"Free", "Pro", "Enterprise"}),
		},
	}
}

func edw(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			Email:     g.messyEmail(fn, ln, i),
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
		},
		CrossIDs: model.CrossIDs{CustomerID: seqID("EDW", i)},
		Attributes: model.WarehouseRow{
			Revenue: g.intn(100, 50000),
			Segment: pick(g, []string{"Enterprise", "Mid-Market", "SMB"}),
			Region:  pick(g, []string{"AMER", "EMEA", "APAC"}),
		},
	}
}

func dataLake(g *Generator, _, _ int) model.RawRecord {
	return model.RawRecord{
		CrossIDs: model.CrossIDs{
			CookieID: fmt.Sprintf("_dl_%d", g.intn(100000, 999999)),
			DeviceID: "dl_" + g.newID(),
		},
		Attributes: model.LakeEvent{
			EventType: pick(g, []string{"impression", "click", "conversion", "video_view"}),
			UTMSource: pick(g, []string{"google", "facebook", "email", "direct"}),
			Timestamp: g.timestamp(14 * day),
		},
	}
}

func loyalty(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			Email:     g.messyEmail(fn, ln, i),
			Phone:     g.messyPhone(),
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
		},
		CrossIDs: model.CrossIDs{LoyaltyID: seqID("LYL", i)},
		Attributes: model.LoyaltyAccount{
			PointsBalance: g.intn(100, 50000),
			Tier:          pick(g, []string{"Bronze", "Silver", "Gold", "Platinum"}),
		},
	}
}

func customerMDM(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	ci := i % len(cities)
	return model.RawRecord{
		Contact: model.Contact{
			Email:     g.messyEmail(fn, ln, i),
			Phone:     g.messyPhone(),
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
			City:      cities[ci],
			State:     states[ci],
		},
		CrossIDs: model.CrossIDs{
			MasterID: seqID("MDM", i),
			CRMID:    crmID(i),
		},
		Attributes: model.MasterRecord{
			LifecycleStage: pick(g, []string{"Prospect", "Customer", "Advocate", "At-Risk"}),
		},
	}
}

func billing(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact:  model.Contact{Email: g.messyEmail(fn, ln, i)},
		CrossIDs: model.CrossIDs{CustomerID: seqID("BIL", i)},
		Attributes: model.BillingAccount{
			PlanName:      pick(g, []string{"Starter", "Growth", "Enterprise"}),
			MRR:           g.intn(29, 999),
			PaymentStatus: pick(g, []string{"Active", "Past Due", "Cancelled"}),
		},
	}
}

func oms(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			Email:     g.messyEmail(fn, ln, i),
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
		},
		CrossIDs: model.CrossIDs{CustomerID: seqID("OMS", i)},
		Attributes: model.Order{
			OrderID:    seqID("ORD", i),
			OrderTotal: g.intn(20, 2000),
			Status:     pick(g, []string{"Pending", "Shipped", "Delivered", "Returned"}),
		},
	}
}

func crm(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	ci := i % len(cities)
	return model.RawRecord{
		Contact: model.Contact{
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
			Email:     g.messyEmail(fn, ln, i),
			Phone:     g.messyPhone(),
			City:      cities[ci],
			State:     states[ci],
		},
		CrossIDs: model.CrossIDs{CRMID: crmID(i)},
		Attributes: model.CRMLead{
			LeadScore: g.intn(10, 100),
			Status:    pick(g, []string{"Lead", "MQL", "SQL", "Customer", "Churned"}),
		},
	}
}

func pos(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	n := g.intn(1, 4)
	purchases := make([]model.Purchase, n)
	total := 0
	for k := range purchases {
		p := pick(g, products)
		purchases[k] = model.Purchase{
			Product: p.name,
			Price:   p.price,
			Date:    g.now().Add(-g.age(90 * day)).UTC().Format("2006-01-02"),
		}
		total += p.price
	}
	return model.RawRecord{
		Contact: model.Contact{
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
			Email:     g.messyEmail(fn, ln, i),
			Phone:     g.messyPhone(),
		},
		CrossIDs:   model.CrossIDs{CustomerID: seqID("SHOP", i)},
		Attributes: model.POSCustomer{Purchases: purchases, TotalSpend: total},
	}
}

func support(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			Email: g.messyEmail(fn, ln, i),
			Phone: g.messyPhone(),
		},
		CrossIDs: model.CrossIDs{CustomerID: seqID("ZD", i)},
		Attributes: model.SupportTicket{
			TicketID:  fmt.Sprintf("TKT-%d", g.intn(10000, 99999)),
			Subject:   pick(g, []string{"Order issue", "Billing question", "Product defect", "Returns", "Account access"}),
			Priority:  pick(g, []string{"Low", "Medium", "High", "Urgent"}),
			CSATScore: g.intn(1, 5),
		},
	}
}

func callCenter(g *Generator, i, _ int) model.RawRecord {
	return model.RawRecord{
		Contact:  model.Contact{Phone: g.messyPhone()},
		CrossIDs: model.CrossIDs{CustomerID: seqID("CC", i)},
		Attributes: model.Call{
			CallDuration: g.intn(30, 1800),
			Disposition:  pick(g, []string{"Resolved", "Escalated", "Callback", "Abandoned"}),
			AgentID:      fmt.Sprintf("AGT-%d", g.intn(100, 999)),
			QueueTime:    g.intn(5, 300),
		},
	}
}

func emailEngagement(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{Email: g.messyEmail(fn, ln, i)},
		Attributes: model.EmailEngagement{
			SubscriberID: seqID("SUB", i),
			CampaignID:   pick(g, []string{"Welcome", "Product Launch", "Newsletter", "Winback"}),
			Opens:        g.intn(0, 30),
			Clicks:       g.intn(0, 10),
			Bounced:      g.chance(0.1),
		},
	}
}

func paidSocial(g *Generator, _, _ int) model.RawRecord {
	click := "gclid_" + g.newID()
	return model.RawRecord{
		CrossIDs: model.CrossIDs{DeviceID: "ps_" + g.newID()},
		Attributes: model.PaidClick{
			ClickID:     click,
			Campaign:    pick(g, []string{"Summer Sale 2024", "Black Friday Blitz", "New Arrivals Q1", "Retargeting"}),
			AdPlatform:  pick(g, []string{"Google Ads", "Meta Ads", "LinkedIn Ads"}),
			Spend:       g.decimal(0.5, 50, 2),
			Impressions: g.intn(100, 10000),
			Clicks:      g.intn(1, 200),
		},
	}
}

func adImpressions(g *Generator, _, _ int) model.RawRecord {
	return model.RawRecord{
		CrossIDs: model.CrossIDs{
			DeviceID: "ai_" + g.newID(),
			CookieID: fmt.Sprintf("_ai_%d", g.intn(100000, 999999)),
		},
		Attributes: model.AdImpression{
			CreativeID:  fmt.Sprintf("CR-%d", g.intn(1000, 9999)),
			Placement:   pick(g, []string{"Banner", "Interstitial", "Native", "Video"}),
			Viewability: g.intn(40, 100),
			CTR:         g.decimal(0, 5, 2),
		},
	}
}

func offlineCampaigns(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			Email:     g.messyEmail(fn, ln, i),
			Phone:     g.messyPhone(),
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
		},
		Attributes: model.OfflineResponse{
			CampaignName: pick(g, []string{"Direct Mail Q1", "Trade Show NYC", "Sponsorship Event", "Print Ad"}),
			ResponseFlag: g.chance(0.3),
		},
	}
}

func marketo(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{
			FirstName: g.messyName(fn),
			LastName:  g.messyName(ln),
			Email:     g.messyEmail(fn, ln, i),
		},
		CrossIDs: model.CrossIDs{MarketoID: seqID("MKT", i)},
		Attributes: model.MarketoLead{
			EmailOpens:   g.intn(0, 40),
			EmailClicks:  g.intn(0, 15),
			LastCampaign: pick(g, []string{"Welcome Series", "Product Launch", "Re-engagement", "Loyalty Rewards"}),
			Subscribed:   g.chance(0.8),
		},
	}
}

func identityGraph(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	hashed := "sha256_" + g.newID()
	return model.RawRecord{
		Contact:  model.Contact{Email: g.messyEmail(fn, ln, i)},
		CrossIDs: model.CrossIDs{DeviceID: "ig_" + g.newID()},
		Attributes: model.GraphLink{
			HashedEmail: hashed,
			IDCluster:   fmt.Sprintf("CLU-%d", g.intn(1000, 9999)),
			Confidence:  pick(g, []string{"high", "medium", "low"}),
			LinkType:    pick(g, []string{"deterministic", "probabilistic"}),
		},
	}
}

func enrichment(g *Generator, i, _ int) model.RawRecord {
	fn, ln := person(i)
	return model.RawRecord{
		Contact: model.Contact{Email: g.messyEmail(fn, ln, i)},
		Attributes: model.Firmographics{
			Domain:        domains[i%len(domains)],
			CompanyName:   pick(g, []string{"Acme Corp", "TechFlow Inc", "Global Retail", "CloudNine"}),
			Industry:      pick(g, []string{"SaaS", "Retail", "Finance", "Healthcare"}),
			EmployeeCount: pick(g, []string{"1-50", "51-200", "201-1000", "1000+"}),
		},
	}
}

func cleanRoom(g *Generator, _, _ int) model.RawRecord {
	return model.RawRecord{
		Attributes: model.CleanRoomMatch{
			HashedEmail:     "sha256_" + g.newID(),
			SegmentID:       fmt.Sprintf("SEG-%d", g.intn(1000, 9999)),
			PartnerName:     pick(g, []string{"Retail Partner", "Media Co", "Financial Services"}),
			AudienceSegment: pick(g, []string{"High-Value Shoppers", "Auto Intenders", "Frequent Travelers"}),
			OverlapCount:    g.intn(1000, 50000),
			MatchRate:       g.intn(30, 90),
		},
	}
}

func ga4(g *Generator, i, count int) model.RawRecord {
	fn, ln := person(i)
	r := model.RawRecord{
		CrossIDs: model.CrossIDs{
			DeviceID: "ga_" + g.newID(),
			CookieID: fmt.Sprintf("_ga_%d", g.intn(100000, 999999)),
		},
	}
	ip := fmt.Sprintf("%d.%d.%d.%d", g.intn(10, 250), g.intn(0, 255), g.intn(0, 255), g.intn(1, 254))
	if loggedIn(i, count, 0.6) {
		r.Email = g.messyEmail(fn, ln, i)
	}
	r.Attributes = model.AnalyticsSession{
		IPAddress:       ip,
		PageViews:       g.intn(1, 50),
		SessionDuration: g.intn(10, 600),
		LastPage:        pick(g, []string{"/products/tv", "/products/headphones", "/checkout", "/blog/deals", "/account/login"}),
		Timestamp:       g.timestamp(7 * day),
	}
	return r
}

func attribution(g *Generator, i, _ int) model.RawRecord {
	return model.RawRecord{
		CrossIDs: model.CrossIDs{CustomerID: seqID("ATT", i)},
		Attributes: model.AttributionTouch{
			ClickID:       "attr_" + g.newID(),
			ModelType:     pick(g, []string{"Last Touch", "First Touch", "Linear", "Data-Driven"}),
			ChannelCredit: g.decimal(0, 100, 1),
			ConversionID:  fmt.Sprintf("CONV-%d", g.intn(10000, 99999)),
		},
	}
}

func experimentation(g *Generator, i, _ int) model.RawRecord {
	return model.RawRecord{
		CrossIDs: model.CrossIDs{DeviceID: "exp_" + g.newID()},
		Attributes: model.Experiment{
			UserID:       fmt.Sprintf("exp_%d", 10000+i*111),
			ExperimentID: pick(g, []string{"EXP-001", "EXP-002", "EXP-003"}),
			Variant:      pick(g, []string{"Control", "Variant A", "Variant B"}),
			MetricValue:  g.decimal(0, 10, 2),
			Significance: pick(g, []string{"significant", "not significant", "trending"}),
		},
	}
}
