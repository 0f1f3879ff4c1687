package entity

import "time"

// Product is the catalogue slice joined into room listings. The catalogue
// itself is owned by the product service.
type Product struct {
	ID        string    `json:"id" firestore:"id"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	Title     string    `json:"title" firestore:"title"`
	Images    []string  `json:"images" firestore:"images"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
