package validators

type VendorCreateRequest struct {
	UserID        string `json:"user_id" validate:"required,object_id"`
	BusinessName  string `json:"business_name" validate:"required,min=2,max=120"`
	VendorType    string `json:"vendor_type" validate:"required,oneof=food_vendor home_chef"`
	Phone         string `json:"phone" validate:"required,phone_number"`
	Email         string `json:"email" validate:"omitempty,email"`
	ZoneID        string `json:"zone_id" validate:"required,object_id"`
	DailyCapacity int    `json:"daily_capacity" validate:"required,min=1,max=1000"`
}

type VendorUpdateRequest struct {
	BusinessName  *string `json:"business_name" validate:"omitempty,min=2,max=120"`
	Phone         *string `json:"phone" validate:"omitempty,phone_number"`
	Email         *string `json:"email" validate:"omitempty,email"`
	ZoneID        *string `json:"zone_id" validate:"omitempty,object_id"`
	DailyCapacity *int    `json:"daily_capacity" validate:"omitempty,min=1,max=1000"`
	IsActive      *bool   `json:"is_active"`
}

func ValidateVendorCreate(req *VendorCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateVendorUpdate(req *VendorUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}
