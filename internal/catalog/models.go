package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a string array column as JSON text so the same
// model works on the Postgres destination and the SQLite used in
// development and tests.
type StringList []string

// Value serializes the list for storage; an empty list stores as [].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	encoded, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Scan restores the list from its stored JSON text.
func (l *StringList) Scan(src any) error {
	return scanJSONList(src, l)
}

// FloatList stores a numeric array column as JSON text.
type FloatList []float64

// Value serializes the list for storage; nil stores as NULL.
func (l FloatList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Scan restores the list from its stored JSON text.
func (l *FloatList) Scan(src any) error {
	return scanJSONList(src, l)
}

func scanJSONList(src, dst any) error {
	switch value := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(value, dst)
	case string:
		return json.Unmarshal([]byte(value), dst)
	default:
		return fmt.Errorf("catalog: unsupported list column type %T", src)
	}
}

// Deal mirrors one row of the deals table. notion_id correlates 1:1
// with the workspace record and is the upsert conflict key.
type Deal struct {
	ID                      uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotionID                string     `gorm:"column:notion_id;size:64;uniqueIndex;not null" json:"notion_id"`
	BrandID                 *string    `gorm:"column:brand_id;size:64" json:"brand_id"`
	OfferID                 *string    `gorm:"column:offer_id;size:64" json:"offer_id"`
	AdvertiserID            *string    `gorm:"column:advertiser_id;size:64" json:"advertiser_id"`
	DealStatus              *string    `gorm:"column:deal_status" json:"deal_status"`
	DealDate                *string    `gorm:"column:deal_date" json:"deal_date"`
	DealConfirmationStatus  *string    `gorm:"column:deal_confirmation_status" json:"deal_confirmation_status"`
	Cap                     *float64   `gorm:"column:cap" json:"cap"`
	CRG                     *float64   `gorm:"column:crg" json:"crg"`
	CPA                     *float64   `gorm:"column:cpa" json:"cpa"`
	CPL                     *float64   `gorm:"column:cpl" json:"cpl"`
	BuyingCPA               *float64   `gorm:"column:buying_cpa" json:"buying_cpa"`
	BuyingCPL               *float64   `gorm:"column:buying_cpl" json:"buying_cpl"`
	BuyingCRG               *float64   `gorm:"column:buying_crg" json:"buying_crg"`
	PaymentFee              *float64   `gorm:"column:payment_fee" json:"payment_fee"`
	WHStart                 *string    `gorm:"column:wh_start" json:"wh_start"`
	WHEnd                   *string    `gorm:"column:wh_end" json:"wh_end"`
	TMAllCustomers          StringList `gorm:"column:tm_all_customers;type:text" json:"tm_all_customers"`
	IndividualOffersKitchen StringList `gorm:"column:individual_offers_kitchen;type:text" json:"individual_offers_kitchen"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at" json:"updated_at"`
	LastSyncedAt            time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

// TableName provides the explicit table binding for GORM.
func (Deal) TableName() string {
	return "deals"
}

// Offer mirrors one row of the offers table.
type Offer struct {
	ID                    uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotionID              string     `gorm:"column:notion_id;size:64;uniqueIndex;not null" json:"notion_id"`
	BrandID               *string    `gorm:"column:brand_id;size:64" json:"brand_id"`
	AdvertiserID          *string    `gorm:"column:advertiser_id;size:64" json:"advertiser_id"`
	CRLastWeekTold        string     `gorm:"column:cr_last_week_told" json:"cr_last_week_told"`
	CRLastWeekSay         string     `gorm:"column:cr_last_week_say" json:"cr_last_week_say"`
	ExpectedCR            string     `gorm:"column:expected_cr" json:"expected_cr"`
	CPABuying             *float64   `gorm:"column:cpa_buying" json:"cpa_buying"`
	CPLBuying             *float64   `gorm:"column:cpl_buying" json:"cpl_buying"`
	CRGBuying             *float64   `gorm:"column:crg_buying" json:"crg_buying"`
	CPANetworkSelling     *float64   `gorm:"column:cpa_network_selling" json:"cpa_network_selling"`
	CPLNetworkSelling     *float64   `gorm:"column:cpl_network_selling" json:"cpl_network_selling"`
	CRGNetworkSelling     *float64   `gorm:"column:crg_network_selling" json:"crg_network_selling"`
	CPABrandSelling       *float64   `gorm:"column:cpa_brand_selling" json:"cpa_brand_selling"`
	CPLBrandSelling       *float64   `gorm:"column:cpl_brand_selling" json:"cpl_brand_selling"`
	CRGBrandSelling       *float64   `gorm:"column:crg_brand_selling" json:"crg_brand_selling"`
	PPLNetwork            string     `gorm:"column:ppl_network" json:"ppl_network"`
	PPLBrand              string     `gorm:"column:ppl_brand" json:"ppl_brand"`
	PercentProfitBrand    *float64   `gorm:"column:percent_profit_brand" json:"percent_profit_brand"`
	PriorityStatus        bool       `gorm:"column:priority_status" json:"priority_status"`
	ActiveStatus          *string    `gorm:"column:active_status" json:"active_status"`
	Latam                 bool       `gorm:"column:latam" json:"latam"`
	NotesForCustomers     string     `gorm:"column:notes_for_customers" json:"notes_for_customers"`
	NotesForUs            string     `gorm:"column:notes_for_us" json:"notes_for_us"`
	LPD                   string     `gorm:"column:lpd" json:"lpd"`
	Language              StringList `gorm:"column:language;type:text" json:"language"`
	Sources               StringList `gorm:"column:sources;type:text" json:"sources"`
	Funnels               StringList `gorm:"column:funnels;type:text" json:"funnels"`
	FunnelChange          StringList `gorm:"column:funnel_change;type:text" json:"funnel_change"`
	AllAdvertisersKitchen StringList `gorm:"column:all_advertisers_kitchen;type:text" json:"all_advertisers_kitchen"`
	AllDealsKitchen       StringList `gorm:"column:all_deals_kitchen;type:text" json:"all_deals_kitchen"`
	TMAffiliatesToSell    StringList `gorm:"column:tm_affiliates_to_sell;type:text" json:"tm_affiliates_to_sell"`
	CreatedAt             time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at" json:"updated_at"`
	LastSyncedAt          time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

// TableName provides the explicit table binding for GORM.
func (Offer) TableName() string {
	return "offers"
}

// Brand mirrors one row of the brands table.
type Brand struct {
	ID                 uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotionID           string     `gorm:"column:notion_id;size:64;uniqueIndex;not null" json:"notion_id"`
	BrandName          string     `gorm:"column:brand_name" json:"brand_name"`
	BrandURL           string     `gorm:"column:brand_url" json:"brand_url"`
	CommissionType     *string    `gorm:"column:commission_type" json:"commission_type"`
	CommissionAmount   *string    `gorm:"column:commission_amount" json:"commission_amount"`
	CookieLengthDays   *float64   `gorm:"column:cookie_length_days" json:"cookie_length_days"`
	Network            *string    `gorm:"column:network" json:"network"`
	AffiliateLink      string     `gorm:"column:affiliate_link" json:"affiliate_link"`
	TermsAndConditions string     `gorm:"column:terms_and_conditions" json:"terms_and_conditions"`
	Notes              string     `gorm:"column:notes" json:"notes"`
	Categories         StringList `gorm:"column:categories;type:text" json:"categories"`
	Tags               StringList `gorm:"column:tags;type:text" json:"tags"`
	Regions            StringList `gorm:"column:regions;type:text" json:"regions"`
	Status             *string    `gorm:"column:status" json:"status"`
	LastChecked        *string    `gorm:"column:last_checked" json:"last_checked"`
	MinPayout          FloatList  `gorm:"column:min_payout;type:text" json:"min_payout"`
	MaxPayout          FloatList  `gorm:"column:max_payout;type:text" json:"max_payout"`
	PayoutType         *string    `gorm:"column:payout_type" json:"payout_type"`
	TrackingSoftware   *string    `gorm:"column:tracking_software" json:"tracking_software"`
	TrackingLink       string     `gorm:"column:tracking_link" json:"tracking_link"`
	ProgramID          string     `gorm:"column:program_id" json:"program_id"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
	LastSyncedAt       time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

// TableName provides the explicit table binding for GORM.
func (Brand) TableName() string {
	return "brands"
}

// Advertiser mirrors one row of the advertisers table.
type Advertiser struct {
	ID                  uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotionID            string     `gorm:"column:notion_id;size:64;uniqueIndex;not null" json:"notion_id"`
	Name                string     `gorm:"column:name" json:"name"`
	Status              *string    `gorm:"column:status" json:"status"`
	MainContact         string     `gorm:"column:main_contact" json:"main_contact"`
	PaymentFee          *float64   `gorm:"column:payment_fee" json:"payment_fee"`
	DeductionAdvertiser *float64   `gorm:"column:deduction_advertiser" json:"deduction_advertiser"`
	BrandID             *string    `gorm:"column:brand_id;size:64" json:"brand_id"`
	KitchenFunnels      StringList `gorm:"column:kitchen_funnels;type:text" json:"kitchen_funnels"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updated_at"`
	LastSyncedAt        time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

// TableName provides the explicit table binding for GORM.
func (Advertiser) TableName() string {
	return "advertisers"
}
