// Package models chứa các model thuộc domain auth (hr_users, hr_access).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User là nhân viên, cũng là tài khoản đăng nhập.
// Các con trỏ nhóm (department, team, ...) luôn khớp với members của nhóm tương ứng.
type User struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	FirstName    string `json:"firstName" bson:"firstName" validate:"required,max=100,no_xss"`
	LastName     string `json:"lastName" bson:"lastName" validate:"required,max=100,no_xss"`
	Email        string `json:"email" bson:"email" index:"unique" validate:"required,email"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=30"`
	JobTitle     string `json:"jobTitle,omitempty" bson:"jobTitle,omitempty" validate:"omitempty,max=100,no_xss"`

	Department    primitive.ObjectID `json:"department,omitempty" bson:"department,omitempty" index:"single:1"`
	Team          primitive.ObjectID `json:"team,omitempty" bson:"team,omitempty" index:"single:1"`
	Position      primitive.ObjectID `json:"position,omitempty" bson:"position,omitempty" index:"single:1"`
	HourGroup     primitive.ObjectID `json:"hourGroup,omitempty" bson:"hourGroup,omitempty"`
	BonusCategory primitive.ObjectID `json:"bonusCategory,omitempty" bson:"bonusCategory,omitempty" index:"single:1"`
	Access        primitive.ObjectID `json:"access,omitempty" bson:"access,omitempty"`

	BaseSalary float64 `json:"baseSalary" bson:"baseSalary" validate:"gte=0"`
	IsActive   bool    `json:"isActive" bson:"isActive"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// FullName trả về "Prénom Nom"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
