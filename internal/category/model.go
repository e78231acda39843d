package category

import "time"

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
