package repos

import (
	"encoding/json"

	"drwheels/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderRow joins an order with buyer/seller public fields and a car
// summary. The car join is LEFT: listings can be deleted out from under an
// order (no cascade), and the order must still render.
type OrderRow struct {
	domain.Order
	BuyerName   string  `db:"buyer_name"`
	BuyerEmail  string  `db:"buyer_email"`
	SellerName  string  `db:"seller_name"`
	SellerEmail string  `db:"seller_email"`
	CarMake     string  `db:"car_make"`
	CarModel    string  `db:"car_model"`
	CarYear     int     `db:"car_year"`
	CarPrice    float64 `db:"car_price"`
	CarImages   string  `db:"car_images"`
}

func (row *OrderRow) Doc() domain.OrderDoc {
	var images []string
	_ = json.Unmarshal([]byte(row.CarImages), &images)
	if images == nil {
		images = []string{}
	}
	return domain.OrderDoc{
		ID:            row.ID,
		Buyer:         domain.UserRef{ID: row.BuyerID, Name: row.BuyerName, Email: row.BuyerEmail},
		Seller:        domain.UserRef{ID: row.SellerID, Name: row.SellerName, Email: row.SellerEmail},
		Car:           domain.CarRef{ID: row.CarID, Make: row.CarMake, Model: row.CarModel, Year: row.CarYear, Price: row.CarPrice, Images: images},
		Amount:        row.Amount,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

const orderSelect = `
  SELECT o.id, o.buyer_id, o.seller_id, o.car_id, o.amount, o.status,
         o.payment_status, COALESCE(o.notes,'') AS notes,
         o.created_at, COALESCE(o.updated_at,'') AS updated_at,
         b.name AS buyer_name,  b.email AS buyer_email,
         s.name AS seller_name, s.email AS seller_email,
         COALESCE(c.make,'')  AS car_make,  COALESCE(c.model,'') AS car_model,
         COALESCE(c.year,0)   AS car_year,  COALESCE(c.price,0)  AS car_price,
         COALESCE(c.images_json,'[]') AS car_images
  FROM orders o
  JOIN users b ON b.id = o.buyer_id
  JOIN users s ON s.id = o.seller_id
  LEFT JOIN cars c ON c.id = o.car_id`

func (r *OrderRepo) Insert(o *domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id,buyer_id,seller_id,car_id,amount,status,payment_status,notes)
	  VALUES(?,?,?,?,?,?,?,?)
	`, o.ID, o.BuyerID, o.SellerID, o.CarID, o.Amount, o.Status, o.PaymentStatus, o.Notes)
	return err
}

func (r *OrderRepo) Get(id string) (OrderRow, error) {
	var row OrderRow
	err := r.db.Get(&row, orderSelect+` WHERE o.id = ?`, id)
	return row, err
}

func (r *OrderRepo) ListByBuyer(userID string) ([]OrderRow, error) {
	var out []OrderRow
	err := r.db.Select(&out, orderSelect+`
	  WHERE o.buyer_id = ?
	  ORDER BY datetime(o.created_at) DESC`, userID)
	return out, err
}

func (r *OrderRepo) ListBySeller(userID string) ([]OrderRow, error) {
	var out []OrderRow
	err := r.db.Select(&out, orderSelect+`
	  WHERE o.seller_id = ?
	  ORDER BY datetime(o.created_at) DESC`, userID)
	return out, err
}

func (r *OrderRepo) SetStatus(id, status, paymentStatus string) error {
	_, err := r.db.Exec(`
	  UPDATE orders SET status=?, payment_status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, status, paymentStatus, id)
	return err
}
