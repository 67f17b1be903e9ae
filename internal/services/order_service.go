package services

import (
	"database/sql"
	"errors"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/google/uuid"
)

// OrderService owns the purchase workflow and the car-status side effects
// coupled to it. The order write and the car write are sequential,
// independent statements: a crash between them leaves the pair
// inconsistent, matching the behavior this API's clients were built
// against.
type OrderService struct {
	Orders *repos.OrderRepo
	Cars   *repos.CarRepo
}

func NewOrderService(orders *repos.OrderRepo, cars *repos.CarRepo) *OrderService {
	return &OrderService{Orders: orders, Cars: cars}
}

type CreateOrderInput struct {
	CarID string `json:"carId" validate:"required"`
	Notes string `json:"notes" validate:"max=500"`
}

type UpdateOrderStatusInput struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=pending paid refunded"`
}

func (s *OrderService) Create(buyer *domain.User, carID, notes string) (domain.OrderDoc, error) {
	car, err := s.Cars.Get(carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderDoc{}, notFound("Car not found")
		}
		return domain.OrderDoc{}, err
	}
	if car.Status != domain.CarAvailable {
		return domain.OrderDoc{}, invalidState("Car is not available for purchase")
	}
	if car.SellerID == buyer.ID {
		return domain.OrderDoc{}, invalidState("You cannot purchase your own car")
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		BuyerID:       buyer.ID,
		SellerID:      car.SellerID,
		CarID:         carID,
		Amount:        car.Price, // price snapshot at order time
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		Notes:         notes,
	}
	if err := s.Orders.Insert(order); err != nil {
		return domain.OrderDoc{}, err
	}
	if err := s.Cars.SetStatus(carID, domain.CarPending); err != nil {
		return domain.OrderDoc{}, err
	}

	row, err := s.Orders.Get(order.ID)
	if err != nil {
		return domain.OrderDoc{}, err
	}
	return row.Doc(), nil
}

// List returns the caller's orders, newest first. role is "seller" to see
// incoming orders, anything else means buyer.
func (s *OrderService) List(userID, role string) ([]domain.OrderDoc, error) {
	var rows []repos.OrderRow
	var err error
	if role == "seller" {
		rows, err = s.Orders.ListBySeller(userID)
	} else {
		rows, err = s.Orders.ListByBuyer(userID)
	}
	if err != nil {
		return nil, err
	}
	docs := make([]domain.OrderDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].Doc())
	}
	return docs, nil
}

func (s *OrderService) Get(actor *domain.User, orderID string) (domain.OrderDoc, error) {
	row, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderDoc{}, notFound("Order not found")
		}
		return domain.OrderDoc{}, err
	}
	if actor.ID != row.BuyerID && actor.ID != row.SellerID && !actor.IsAdmin() {
		return domain.OrderDoc{}, forbidden()
	}
	return row.Doc(), nil
}

// UpdateStatus lets the seller (or an admin) move the order. There is no
// forward-transition gate: the enum check on input is the only guard.
// completed marks the car sold, cancelled puts it back on the market.
func (s *OrderService) UpdateStatus(actor *domain.User, orderID string, in UpdateOrderStatusInput) (domain.OrderDoc, error) {
	row, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderDoc{}, notFound("Order not found")
		}
		return domain.OrderDoc{}, err
	}
	if !canMutate(actor, row.SellerID) {
		return domain.OrderDoc{}, forbidden()
	}

	status := row.Status
	payment := row.PaymentStatus
	if in.Status != nil {
		status = *in.Status
	}
	if in.PaymentStatus != nil {
		payment = *in.PaymentStatus
	}

	if in.Status != nil {
		switch *in.Status {
		case domain.OrderCompleted:
			if err := s.Cars.SetStatus(row.CarID, domain.CarSold); err != nil {
				return domain.OrderDoc{}, err
			}
		case domain.OrderCancelled:
			if err := s.Cars.SetStatus(row.CarID, domain.CarAvailable); err != nil {
				return domain.OrderDoc{}, err
			}
		}
	}

	if err := s.Orders.SetStatus(orderID, status, payment); err != nil {
		return domain.OrderDoc{}, err
	}
	out, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.OrderDoc{}, err
	}
	return out.Doc(), nil
}

// Cancel is the buyer's exit. The car is put back to available
// unconditionally, even if it was already sold; a second cancel succeeds
// the same way the first did.
func (s *OrderService) Cancel(actor *domain.User, orderID string) error {
	row, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Order not found")
		}
		return err
	}
	if !canMutate(actor, row.BuyerID) {
		return forbidden()
	}

	if err := s.Orders.SetStatus(orderID, domain.OrderCancelled, row.PaymentStatus); err != nil {
		return err
	}
	return s.Cars.SetStatus(row.CarID, domain.CarAvailable)
}
