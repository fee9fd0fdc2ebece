package model

// 顧客の住所（customers テーブルに埋め込む）
type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	ZipCode string `gorm:"type:varchar(20)" json:"zipCode"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}
