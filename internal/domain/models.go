package domain

// Car status lifecycle: available -> pending (open order) -> sold.
// Cancelling an order puts the car back to available.
const (
	CarAvailable = "available"
	CarPending   = "pending"
	CarSold      = "sold"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Car struct {
	ID            string  `db:"id"`
	SellerID      string  `db:"seller_id"`
	Make          string  `db:"make"`
	Model         string  `db:"model"`
	Year          int     `db:"year"`
	Price         float64 `db:"price"`
	Mileage       int     `db:"mileage"`
	Color         string  `db:"color"`
	Description   string  `db:"description"`
	ImagesJSON    string  `db:"images_json"`
	Status        string  `db:"status"`
	AverageRating float64 `db:"average_rating"`
	ReviewCount   int     `db:"review_count"`
	CreatedAt     string  `db:"created_at"`
	UpdatedAt     string  `db:"updated_at"`
}

// CarDoc is the car document the API returns.
type CarDoc struct {
	ID            string   `json:"id"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Year          int      `json:"year"`
	Price         float64  `json:"price"`
	Mileage       int      `json:"mileage"`
	Color         string   `json:"color,omitempty"`
	Description   string   `json:"description,omitempty"`
	Images        []string `json:"images"`
	Seller        UserRef  `json:"seller"`
	Status        string   `json:"status"`
	AverageRating float64  `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// CarRef is the trimmed car shape embedded in orders, reviews and favorites.
type CarRef struct {
	ID     string   `json:"id"`
	Make   string   `json:"make"`
	Model  string   `json:"model"`
	Year   int      `json:"year"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

type Order struct {
	ID            string  `db:"id"`
	BuyerID       string  `db:"buyer_id"`
	SellerID      string  `db:"seller_id"`
	CarID         string  `db:"car_id"`
	Amount        float64 `db:"amount"`
	Status        string  `db:"status"`
	PaymentStatus string  `db:"payment_status"`
	Notes         string  `db:"notes"`
	CreatedAt     string  `db:"created_at"`
	UpdatedAt     string  `db:"updated_at"`
}

type OrderDoc struct {
	ID            string  `json:"id"`
	Buyer         UserRef `json:"buyer"`
	Seller        UserRef `json:"seller"`
	Car           CarRef  `json:"car"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

type Review struct {
	ID        string `db:"id"`
	CarID     string `db:"car_id"`
	UserID    string `db:"user_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type ReviewDoc struct {
	ID        string  `json:"id"`
	CarID     string  `json:"car"`
	User      UserRef `json:"user"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// UserReviewDoc is the "my reviews" shape: car summary instead of user.
type UserReviewDoc struct {
	ID        string `json:"id"`
	Car       CarRef `json:"car"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type Favorite struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	CarID     string `db:"car_id"`
	CreatedAt string `db:"created_at"`
}

type FavoriteDoc struct {
	ID        string `json:"id"`
	Car       CarRef `json:"car"`
	CreatedAt string `json:"createdAt"`
}

type Chat struct {
	ID        string `db:"id"`
	UserA     string `db:"user_a"`
	UserB     string `db:"user_b"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Message struct {
	ID        string `db:"id"`
	ChatID    string `db:"chat_id"`
	SenderID  string `db:"sender_id"`
	Content   string `db:"content"`
	CreatedAt string `db:"created_at"`
}

type MessageDoc struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type ChatDoc struct {
	ID           string       `json:"id"`
	Participants []UserRef    `json:"participants"`
	Messages     []MessageDoc `json:"messages"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
