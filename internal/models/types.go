package models

import "errors"

var ErrMissingFields = errors.New("please fill in all fields")

type Profile struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Image   *string `json:"image"`
}

// Validate requires every text field; the image is optional.
func (p Profile) Validate() error {
	for _, field := range []string{p.Name, p.Email, p.Phone, p.Address} {
		if field == "" {
			return ErrMissingFields
		}
	}
	return nil
}

type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
}

type Buyer struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

type Order struct {
	ID      string  `json:"id"`
	Product Product `json:"product"`
	Buyer   Buyer   `json:"buyer"`
	Date    string  `json:"date"`
}
