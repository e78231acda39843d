package broker

import "time"

type Broker struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateBrokerRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}
