package dto

type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
}

type CustomerResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type BranchResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    *string `json:"address,omitempty"`
	Restaurant string  `json:"restaurant,omitempty"`
}

type CreateBranchRequest struct {
	RestaurantID string  `json:"restaurant_id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required"`
	Address      *string `json:"address,omitempty"`
}
