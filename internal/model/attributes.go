package model

// Attributes is the source-specific part of a RawRecord. The set of
// implementations is closed; each source template produces exactly one kind.
type Attributes interface {
	attributes()
}

// Purchase is one commerce line item.
type Purchase struct {
	Product string `json:"product" yaml:"product"`
	Price   int    `json:"price" yaml:"price"`
	Date    string `json:"date" yaml:"date"`
}

// WebEvent is a web/app behavioral event (webAppEvents).
type WebEvent struct {
	EventName string `json:"eventName" yaml:"eventName"`
	PageURL   string `json:"pageUrl" yaml:"pageUrl"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// MobileEvent is a mobile app interaction (mobileAppEvents).
type MobileEvent struct {
	PushToken  string `json:"pushToken" yaml:"pushToken"`
	ScreenName string `json:"screenName" yaml:"screenName"`
	Action     string `json:"action" yaml:"action"`
	OS         string `json:"os" yaml:"os"`
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
}

// ProductUsage is a product telemetry rollup (productTelemetry).
type ProductUsage struct {
	UserID          string `json:"userId" yaml:"userId"`
	FeatureName     string `json:"featureName" yaml:"featureName"`
	UsageCount      int    `json:"usageCount" yaml:"usageCount"`
	SessionDuration int    `json:"sessionDuration" yaml:"sessionDuration"`
	PlanTier        string `json:"planTier" yaml:"planTier"`
}

// WarehouseRow is an enterprise data warehouse customer row (edw).
type WarehouseRow struct {
	Revenue int    `json:"revenue" yaml:"revenue"`
	Segment string `json:"segment" yaml:"segment"`
	Region  string `json:"region" yaml:"region"`
}

// LakeEvent is an anonymous data lake event (dataLake).
type LakeEvent struct {
	EventType string `json:"eventType" yaml:"eventType"`
	UTMSource string `json:"utmSource" yaml:"utmSource"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// LoyaltyAccount is a loyalty program member (loyalty).
type LoyaltyAccount struct {
	PointsBalance int    `json:"pointsBalance" yaml:"pointsBalance"`
	Tier          string `json:"tier" yaml:"tier"`
}

// MasterRecord is a customer MDM golden row (customerMDM).
type MasterRecord struct {
	LifecycleStage string `json:"lifecycleStage" yaml:"lifecycleStage"`
}

// BillingAccount is a subscription billing account (billing).
type BillingAccount struct {
	PlanName      string `json:"planName" yaml:"planName"`
	MRR           int    `json:"mrr" yaml:"mrr"`
	PaymentStatus string `json:"paymentStatus" yaml:"paymentStatus"`
}

// Order is an order management system order (oms).
type Order struct {
	OrderID    string `json:"orderId" yaml:"orderId"`
	OrderTotal int    `json:"orderTotal" yaml:"orderTotal"`
	Status     string `json:"status" yaml:"status"`
}

// CRMLead is a CRM lead or contact (crm).
type CRMLead struct {
	LeadScore int    `json:"leadScore" yaml:"leadScore"`
	Status    string `json:"status" yaml:"status"`
}

// POSCustomer is a point-of-sale customer with purchase history (pos).
type POSCustomer struct {
	Purchases  []Purchase `json:"purchases" yaml:"purchases"`
	TotalSpend int        `json:"totalSpend" yaml:"totalSpend"`
}

// SupportTicket is a help desk ticket (support).
type SupportTicket struct {
	TicketID  string `json:"ticketId" yaml:"ticketId"`
	Subject   string `json:"subject" yaml:"subject"`
	Priority  string `json:"priority" yaml:"priority"`
	CSATScore int    `json:"csatScore" yaml:"csatScore"`
}

// Call is a call center interaction (callCenter). Durations are in seconds.
type Call struct {
	CallDuration int    `json:"callDuration" yaml:"callDuration"`
	Disposition  string `json:"disposition" yaml:"disposition"`
	AgentID      string `json:"agentId" yaml:"agentId"`
	QueueTime    int    `json:"queueTime" yaml:"queueTime"`
}

// EmailEngagement is an email service provider subscriber (emailEngagement).
type EmailEngagement struct {
	SubscriberID string `json:"subscriberId" yaml:"subscriberId"`
	CampaignID   string `json:"campaignId" yaml:"campaignId"`
	Opens        int    `json:"opens" yaml:"opens"`
	Clicks       int    `json:"clicks" yaml:"clicks"`
	Bounced      bool   `json:"bounced" yaml:"bounced"`
}

// PaidClick is a paid social/search click (paidSocial).
type PaidClick struct {
	ClickID     string  `json:"clickId" yaml:"clickId"`
	Campaign    string  `json:"campaign" yaml:"campaign"`
	AdPlatform  string  `json:"adPlatform" yaml:"adPlatform"`
	Spend       float64 `json:"spend" yaml:"spend"`
	Impressions int     `json:"impressions" yaml:"impressions"`
	Clicks      int     `json:"clicks" yaml:"clicks"`
}

// AdImpression is an ad server impression (adImpressions).
type AdImpression struct {
	CreativeID  string  `json:"creativeId" yaml:"creativeId"`
	Placement   string  `json:"placement" yaml:"placement"`
	Viewability int     `json:"viewability" yaml:"viewability"`
	CTR         float64 `json:"ctr" yaml:"ctr"`
}

// OfflineResponse is a response to an offline campaign (offlineCampaigns).
type OfflineResponse struct {
	CampaignName string `json:"campaignName" yaml:"campaignName"`
	ResponseFlag bool   `json:"responseFlag" yaml:"responseFlag"`
}

// MarketoLead is a marketing automation lead (marketo).
type MarketoLead struct {
	EmailOpens   int    `json:"emailOpens" yaml:"emailOpens"`
	EmailClicks  int    `json:"emailClicks" yaml:"emailClicks"`
	LastCampaign string `json:"lastCampaign" yaml:"lastCampaign"`
	Subscribed   bool   `json:"subscribed" yaml:"subscribed"`
}

// GraphLink is an identity graph vendor assertion (identityGraph).
type GraphLink struct {
	HashedEmail string `json:"hashedEmail" yaml:"hashedEmail"`
	IDCluster   string `json:"idCluster" yaml:"idCluster"`
	Confidence  string `json:"confidence" yaml:"confidence"`
	LinkType    string `json:"linkType" yaml:"linkType"`
}

// Firmographics is a B2B enrichment vendor row (enrichment).
type Firmographics struct {
	Domain        string `json:"domain" yaml:"domain"`
	CompanyName   string `json:"companyName" yaml:"companyName"`
	Industry      string `json:"industry" yaml:"industry"`
	EmployeeCount string `json:"employeeCount" yaml:"employeeCount"`
}

// CleanRoomMatch is a data clean room overlap row (cleanRoom).
type CleanRoomMatch struct {
	HashedEmail     string `json:"hashedEmail" yaml:"hashedEmail"`
	SegmentID       string `json:"segmentId" yaml:"segmentId"`
	PartnerName     string `json:"partnerName" yaml:"partnerName"`
	AudienceSegment string `json:"audienceSegment" yaml:"audienceSegment"`
	OverlapCount    int    `json:"overlapCount" yaml:"overlapCount"`
	MatchRate       int    `json:"matchRate" yaml:"matchRate"`
}

// AnalyticsSession is a web analytics session (ga4).
type AnalyticsSession struct {
	IPAddress       string `json:"ipAddress" yaml:"ipAddress"`
	PageViews       int    `json:"pageViews" yaml:"pageViews"`
	SessionDuration int    `json:"sessionDuration" yaml:"sessionDuration"`
	LastPage        string `json:"lastPage" yaml:"lastPage"`
	Timestamp       string `json:"timestamp" yaml:"timestamp"`
}

// AttributionTouch is a multi-touch attribution log row (attribution).
type AttributionTouch struct {
	ClickID       string  `json:"clickId" yaml:"clickId"`
	ModelType     string  `json:"modelType" yaml:"modelType"`
	ChannelCredit float64 `json:"channelCredit" yaml:"channelCredit"`
	ConversionID  string  `json:"conversionId" yaml:"conversionId"`
}

// Experiment is an A/B test exposure (experimentation).
type Experiment struct {
	UserID       string  `json:"userId" yaml:"userId"`
	ExperimentID string  `json:"experimentId" yaml:"experimentId"`
	Variant      string  `json:"variant" yaml:"variant"`
	MetricValue  float64 `json:"metricValue" yaml:"metricValue"`
	Significance string  `json:"significance" yaml:"significance"`
}

func (WebEvent) attributes()         {}
func (MobileEvent) attributes()      {}
func (ProductUsage) attributes()     {}
func (WarehouseRow) attributes()     {}
func (LakeEvent) attributes()        {}
func (LoyaltyAccount) attributes()   {}
func (MasterRecord) attributes()     {}
func (BillingAccount) attributes()   {}
func (Order) attributes()            {}
func (CRMLead) attributes()          {}
func (POSCustomer) attributes()      {}
func (SupportTicket) attributes()    {}
func (Call) attributes()             {}
func (EmailEngagement) attributes()  {}
func (PaidClick) attributes()        {}
func (AdImpression) attributes()     {}
func (OfflineResponse) attributes()  {}
func (MarketoLead) attributes()      {}
func (GraphLink) attributes()        {}
func (Firmographics) attributes()    {}
func (CleanRoomMatch) attributes()   {}
func (AnalyticsSession) attributes() {}
func (AttributionTouch) attributes() {}
func (Experiment) attributes()       {}
