package models

import "time"

// User is an app account, keyed by the WeChat openid (or a caller-supplied
// device identifier for non-WeChat clients).
type User struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"user_id"`
	OpenID string `gorm:"column:openid;type:text;uniqueIndex" json:"openid"`

	Nickname string `gorm:"column:nickname;type:text" json:"nickname"`
	Avatar   string `gorm:"column:avatar;type:text" json:"avatar"`

	IsVIP       bool       `gorm:"column:is_vip" json:"is_vip"`
	VIPType     string     `gorm:"column:vip_type;type:text" json:"vip_type,omitempty"` // "", "normal", "super"
	VIPExpireAt *time.Time `gorm:"column:vip_expire_at;type:timestamptz" json:"vip_expire_at,omitempty"`

	FreeCountToday int        `gorm:"column:free_count_today" json:"free_count_today"`
	LastFreeDate   *time.Time `gorm:"column:last_free_date;type:timestamptz" json:"last_free_date,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }
