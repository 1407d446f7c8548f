package utils

import "time"

// Application Constants
const (
	AppName    = "TiffinHub"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Delivery
	EarthRadiusKM       = 6371.0
	PincodeLength       = 6
	MaxServiceRadiusKM  = 50.0
	DefaultDeliveryTime = 45 * time.Minute

	// Subscriptions
	MinSubscriptionDays = 1
	MaxSubscriptionDays = 365
	MaxCreditsPerOrder  = 4
	DefaultLunchTime    = "12:30"
	DefaultDinnerTime   = "19:30"

	// Payments
	MinOrderAmount       = 1.0
	RefundProcessingTime = 5 * 24 * time.Hour

	// Notifications
	NotificationTimeout = 30 * time.Second
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidCredentials   = "invalid credentials"
	ErrUserNotFound         = "user not found"
	ErrInvalidToken         = "invalid token"
	ErrTokenExpired         = "token expired"
	ErrInvalidInput         = "invalid input"
	ErrInternalServer       = "internal server error"
	ErrUnauthorized         = "unauthorized"
	ErrForbidden            = "forbidden"
	ErrNotFound             = "not found"
	ErrConflict             = "conflict"
	ErrValidationFailed     = "validation failed"
	ErrPaymentFailed        = "payment failed"
	ErrServiceNotAvailable  = "service not available in this area"
	ErrSubscriptionNotFound = "subscription not found"
	ErrPlanNotFound         = "subscription plan not found"
	ErrVendorNotFound       = "vendor not found"
)

// Cache Keys
const (
	CacheZonePincodePrefix  = "zone:pincode:"
	CachePromotionPrefix    = "promotion:"
	CachePlanPrefix         = "plan:"
	CacheSessionPrefix      = "session:"
	CachePurchaseLockPrefix = "purchase:lock:"
)

// Notification Types
const (
	NotificationWhatsApp = "whatsapp"
	NotificationSMS      = "sms"
	NotificationEmail    = "email"
)
