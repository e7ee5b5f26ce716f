// internal/domain/audit/entity.go
package audit

import (
	"time"
)

// ActionType names a user action worth keeping a trace of
type ActionType string

const (
	ActionLogin    ActionType = "login"
	ActionRegister ActionType = "register"

	ActionProductCreate ActionType = "product_create"
	ActionProductUpdate ActionType = "product_update"
	ActionProductDelete ActionType = "product_delete"
	ActionStockUpdate   ActionType = "stock_update"

	ActionCartAdd    ActionType = "cart_add"
	ActionCartUpdate ActionType = "cart_update"
	ActionCartRemove ActionType = "cart_remove"
	ActionCartClear  ActionType = "cart_clear"

	ActionOrderCreate ActionType = "order_create"
	ActionOrderUpdate ActionType = "order_update"
	ActionOrderCancel ActionType = "order_cancel"

	ActionReviewCreate ActionType = "review_create"
	ActionReviewUpdate ActionType = "review_update"
	ActionReviewDelete ActionType = "review_delete"
)

// ActionLog is one recorded user action
type ActionLog struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	UserID       *uint                  `gorm:"index" json:"user_id,omitempty"`
	ActionType   ActionType             `gorm:"not null;size:50;index" json:"action_type"`
	Description  string                 `gorm:"type:text" json:"description"`
	ObjectType   string                 `gorm:"size:100;index:idx_action_logs_object,priority:1" json:"object_type,omitempty"`
	ObjectID     *uint                  `gorm:"index:idx_action_logs_object,priority:2" json:"object_id,omitempty"`
	ExtraData    map[string]interface{} `gorm:"serializer:json" json:"extra_data,omitempty"`
	IPAddress    string                 `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string                 `gorm:"type:text" json:"user_agent,omitempty"`
	IsSuccess    bool                   `gorm:"not null" json:"is_success"`
	ErrorMessage string                 `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time              `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (ActionLog) TableName() string {
	return "action_logs"
}
