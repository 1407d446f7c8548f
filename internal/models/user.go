package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string
type UserType string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"

	UserTypeCustomer UserType = "customer"
	UserTypeVendor   UserType = "vendor"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName       string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName        string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email           string             `json:"email" bson:"email" validate:"required,email"`
	PasswordHash    string             `json:"-" bson:"password_hash"`
	Phone           string             `json:"phone" bson:"phone" validate:"required"`
	CountryCode     string             `json:"country_code" bson:"country_code"`
	UserType        UserType           `json:"user_type" bson:"user_type" validate:"required"`
	Status          UserStatus         `json:"status" bson:"status"`
	Addresses       []DeliveryAddress  `json:"addresses" bson:"addresses"`
	WhatsAppOptIn   bool               `json:"whatsapp_opt_in" bson:"whatsapp_opt_in"`
	IsEmailVerified bool               `json:"is_email_verified" bson:"is_email_verified"`
	IsPhoneVerified bool               `json:"is_phone_verified" bson:"is_phone_verified"`
	LastActiveAt    *time.Time         `json:"last_active_at" bson:"last_active_at"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) WhatsAppNumber() string {
	return u.CountryCode + u.Phone
}
