package domain

import "time"

// ProductView records that a user viewed a product detail page.
type ProductView struct {
	ProductID   string    `bson:"product_id"`
	ProductName string    `bson:"product_name"`
	UserID      string    `bson:"user_id"`
	Timestamp   time.Time `bson:"timestamp"`
}

// LoginRecord records a successful login.
type LoginRecord struct {
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	UserRole  Role      `bson:"user_role"`
	Timestamp time.Time `bson:"timestamp"`
}

// TransactionItem is one purchased line inside a transaction, priced as
// it was in the cart at checkout.
type TransactionItem struct {
	ProductID   string  `bson:"product_id"`
	ProductName string  `bson:"product_name"`
	Quantity    int     `bson:"quantity"`
	Price       float64 `bson:"price"`
}

// Transaction records a completed checkout.
type Transaction struct {
	ID        string            `bson:"_id"`
	UserID    string            `bson:"user_id"`
	UserName  string            `bson:"user_name"`
	UserRole  Role              `bson:"user_role"`
	Items     []TransactionItem `bson:"items"`
	Total     float64           `bson:"total"`
	Timestamp time.Time         `bson:"timestamp"`
}
