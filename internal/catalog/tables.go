package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownCollection indicates a collection name outside the synced
// set.
var ErrUnknownCollection = errors.New("catalog: unknown collection")

// Collection binds a destination table to its mapping table and the
// columns that must be present before a reverse-mapped write.
type Collection struct {
	Name     string
	Table    string
	Fields   []FieldMapping
	Required []string
}

// The property names below are verbatim from the workspace schema,
// emoji and stray whitespace included.

// Deals maps the deals collection.
var Deals = Collection{
	Name:  "deals",
	Table: Deal{}.TableName(),
	Fields: []FieldMapping{
		{Column: "brand_id", Property: "Brand", Kind: KindRelationFirst},
		{Column: "offer_id", Property: "Offer", Kind: KindRelationFirst},
		{Column: "advertiser_id", Property: "Advertiser", Kind: KindRelationFirst},
		{Column: "deal_status", Property: "Deal Status", Kind: KindSelect},
		{Column: "deal_date", Property: "Deal Date", Kind: KindDate},
		{Column: "deal_confirmation_status", Property: "Deal Confirmation Status", Kind: KindSelect},
		{Column: "cap", Property: "Cap", Kind: KindNumber},
		{Column: "crg", Property: "CRG", Kind: KindNumber},
		{Column: "cpa", Property: "CPA", Kind: KindNumber},
		{Column: "cpl", Property: "CPL", Kind: KindNumber},
		{Column: "buying_cpa", Property: "Buying CPA", Kind: KindNumber},
		{Column: "buying_cpl", Property: "Buying CPL", Kind: KindNumber},
		{Column: "buying_crg", Property: "Buying CRG", Kind: KindNumber},
		{Column: "payment_fee", Property: "Payment Fee", Kind: KindNumber},
		{Column: "wh_start", Property: "WH Start", Kind: KindDate},
		{Column: "wh_end", Property: "WH End", Kind: KindDate},
		{Column: "tm_all_customers", Property: "TM All Customers", Kind: KindRelationList},
		{Column: "individual_offers_kitchen", Property: "Individual Offers Kitchen", Kind: KindRelationList},
	},
	Required: []string{"brand_id", "offer_id", "advertiser_id"},
}

// Offers maps the offers collection.
var Offers = Collection{
	Name:  "offers",
	Table: Offer{}.TableName(),
	Fields: []FieldMapping{
		{Column: "brand_id", Property: "Brand", Kind: KindRelationFirst},
		{Column: "advertiser_id", Property: "Advertiser", Kind: KindRelationFirst},
		{Column: "cr_last_week_told", Property: "CR last week told to us", Kind: KindText},
		{Column: "cr_last_week_say", Property: "CR last week we say", Kind: KindText},
		{Column: "expected_cr", Property: "Expected CR", Kind: KindText},
		{Column: "cpa_buying", Property: "CPA | Buying", Kind: KindNumber},
		{Column: "cpl_buying", Property: "CPL | Buying", Kind: KindNumber},
		{Column: "crg_buying", Property: "CRG | Buying", Kind: KindNumber},
		{Column: "cpa_network_selling", Property: "CPA | Network | Selling", Kind: KindNumber},
		{Column: "cpl_network_selling", Property: "CPL | Network | Selling", Kind: KindNumber},
		{Column: "crg_network_selling", Property: "CRG | Network | Selling", Kind: KindNumber},
		{Column: "cpa_brand_selling", Property: "CPA | Brand | Selling", Kind: KindNumber},
		{Column: "cpl_brand_selling", Property: "CPL | Brand | Selling", Kind: KindNumber},
		{Column: "crg_brand_selling", Property: "CRG | Brand | Selling", Kind: KindNumber},
		{Column: "ppl_network", Property: "PPL | Network", Kind: KindText},
		{Column: "ppl_brand", Property: "PPL | Brand", Kind: KindText},
		{Column: "percent_profit_brand", Property: "percent profit brand", Kind: KindNumber},
		{Column: "priority_status", Property: "Priority Status", Kind: KindCheckbox},
		{Column: "active_status", Property: "Active Status`", Kind: KindSelect},
		{Column: "latam", Property: "LATAM", Kind: KindCheckbox},
		{Column: "notes_for_customers", Property: "notes for customers", Kind: KindText},
		{Column: "notes_for_us", Property: "! Notes for us ! ", Kind: KindText},
		{Column: "lpd", Property: "LPD", Kind: KindText},
		{Column: "language", Property: "Language", Kind: KindMultiSelect},
		{Column: "sources", Property: "Sources", Kind: KindMultiSelect},
		{Column: "funnels", Property: "Funnels", Kind: KindMultiSelect},
		{Column: "funnel_change", Property: "Funnel Change", Kind: KindMultiSelect},
		{Column: "all_advertisers_kitchen", Property: "⚡ ALL ADVERTISERS | Kitchen", Kind: KindRelationList},
		{Column: "all_deals_kitchen", Property: "⭐ ALL DEALS | Kitchen", Kind: KindRelationList},
		{Column: "tm_affiliates_to_sell", Property: "™️ ALL AFFILIATES (to sell)", Kind: KindRelationList},
	},
	Required: []string{"brand_id", "advertiser_id"},
}

// Brands maps the brands collection.
var Brands = Collection{
	Name:  "brands",
	Table: Brand{}.TableName(),
	Fields: []FieldMapping{
		{Column: "brand_name", Property: "Name", Kind: KindTitle},
		{Column: "brand_url", Property: "Brand URL", Kind: KindText},
		{Column: "commission_type", Property: "Commission Type", Kind: KindSelect},
		{Column: "commission_amount", Property: "Commission Amount", Kind: KindNumericString},
		{Column: "cookie_length_days", Property: "Cookie Length (Days)", Kind: KindNumber},
		{Column: "network", Property: "Network", Kind: KindSelect},
		{Column: "affiliate_link", Property: "Affiliate Link", Kind: KindText},
		{Column: "terms_and_conditions", Property: "Terms and Conditions", Kind: KindText},
		{Column: "notes", Property: "Notes", Kind: KindText},
		{Column: "categories", Property: "Categories", Kind: KindMultiSelect},
		{Column: "tags", Property: "Tags", Kind: KindMultiSelect},
		{Column: "regions", Property: "Regions", Kind: KindMultiSelect},
		{Column: "status", Property: "Status", Kind: KindSelect},
		{Column: "last_checked", Property: "Last Checked", Kind: KindDate},
		{Column: "min_payout", Property: "Min Payout", Kind: KindNumericArray},
		{Column: "max_payout", Property: "Max Payout", Kind: KindNumericArray},
		{Column: "payout_type", Property: "Payout Type", Kind: KindSelect},
		{Column: "tracking_software", Property: "Tracking Software", Kind: KindSelect},
		{Column: "tracking_link", Property: "Tracking Link", Kind: KindText},
		{Column: "program_id", Property: "Program ID", Kind: KindText},
	},
	Required: []string{"brand_name"},
}

// Advertisers maps the advertisers collection.
var Advertisers = Collection{
	Name:  "advertisers",
	Table: Advertiser{}.TableName(),
	Fields: []FieldMapping{
		{Column: "name", Property: "Name", Kind: KindTitle},
		{Column: "status", Property: "Status", Kind: KindSelect},
		{Column: "main_contact", Property: "Main Contact", Kind: KindText},
		{Column: "payment_fee", Property: "Payment Fee", Kind: KindNumber},
		{Column: "deduction_advertiser", Property: "Deduction % | Advertiser", Kind: KindNumber},
		{Column: "brand_id", Property: "Brand", Kind: KindRelationFirst},
		{Column: "kitchen_funnels", Property: "🥮 Kitchen FUNNELS", Kind: KindRelationList},
	},
	Required: []string{"name"},
}

// Collections lists every synced collection in a stable order.
func Collections() []Collection {
	return []Collection{Deals, Brands, Offers, Advertisers}
}

// CollectionByName resolves a collection from its route/table name.
func CollectionByName(name string) (Collection, error) {
	for _, collection := range Collections() {
		if collection.Name == name {
			return collection, nil
		}
	}
	return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}
