package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string     `json:"name"`
	Email    string     `json:"email" gorm:"uniqueIndex;not null"`
	Password string     `json:"-" gorm:"not null"`
	Role     string     `json:"role" gorm:"type:varchar(20);default:member;index"` // member, admin
	Feedback []Feedback `json:"-" gorm:"foreignKey:UserID;references:ID"`
}
