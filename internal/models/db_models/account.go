package db_models

type Account struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Trips        []Trip `gorm:"foreignKey:OwnerID" json:"trips,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}
