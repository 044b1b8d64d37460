package leads

import "time"

// Lead is one ingested contact. The pair (email, created_date) is the
// soft identity of a lead: re-ingesting the same email on the same date
// updates the stored row in place.
type Lead struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email            string    `gorm:"column:email;size:320;not null;uniqueIndex:idx_leads_email_created,priority:1" json:"email"`
	CreatedDate      string    `gorm:"column:created_date;size:64;not null;uniqueIndex:idx_leads_email_created,priority:2" json:"created_date"`
	Country          string    `gorm:"column:country" json:"country"`
	Campaign         string    `gorm:"column:campaign" json:"campaign"`
	Affiliate        string    `gorm:"column:affiliate" json:"affiliate"`
	Box              string    `gorm:"column:box" json:"box"`
	CallStatus       string    `gorm:"column:call_status;default:NEW" json:"call_status"`
	SoMedia          string    `gorm:"column:so_media" json:"so_media"`
	DepositDate      *string   `gorm:"column:deposit_date" json:"deposit_date"`
	FirstName        string    `gorm:"column:first_name" json:"first_name"`
	LastName         string    `gorm:"column:last_name" json:"last_name"`
	Phone            string    `gorm:"column:phone" json:"phone"`
	OriginalResponse *string   `gorm:"column:original_response;type:text" json:"original_response"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Lead) TableName() string {
	return "leads"
}
