package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionCreateProduct     AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct     AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct     AuditAction = "DELETE_PRODUCT"
	AuditActionApprovePayment    AuditAction = "APPROVE_PAYMENT"
	AuditActionRejectPayment     AuditAction = "REJECT_PAYMENT"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreateProduct, AuditActionUpdateProduct, AuditActionDeleteProduct,
		AuditActionApprovePayment, AuditActionRejectPayment, AuditActionUpdateOrderStatus:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourcePayment AuditResourceType = "payment"
	AuditResourceOrder   AuditResourceType = "order"
)

func (t AuditResourceType) Valid() bool {
	return t == AuditResourceProduct || t == AuditResourcePayment || t == AuditResourceOrder
}

// 監査ログ。「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	Base

	// 操作した管理者のID
	ActorID string `gorm:"type:varchar(36);not null;index" json:"actorId"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   string            `gorm:"type:varchar(36);not null;index" json:"resourceId"`

	// JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before"`
	AfterJSON  string `gorm:"type:text" json:"after"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
