package models

import "time"

// Client is a customer a tree can be reserved for or shipped to.
type Client struct {
	CreatedAt time.Time `json:"created_at"` // время создания
	Phone     *string   `json:"phone"`      // телефон
	ID        string    `json:"id"`         // UUID клиента
	Name      string    `json:"name"`       // имя или название компании
}

// Ref returns the embedded relation form of the client.
func (c *Client) Ref() *ClientRef {
	return &ClientRef{ID: c.ID, Name: c.Name}
}
