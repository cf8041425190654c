package orders

import (
	"context"
	"errors"

	"github.com/xterics/xterics/backend/api/internal/models"
)

var (
	// ErrServiceNotFound means the referenced catalog service does not exist
	// or is inactive.
	ErrServiceNotFound = errors.New("service not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

// ServiceLookup is the slice of the catalog the order flow needs.
type ServiceLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Service, error)
}

// Service implements order placement and the admin status workflow.
type Service struct {
	repo    Repository
	catalog ServiceLookup
}

func NewService(repo Repository, catalog ServiceLookup) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// PlaceInput is a new order request. UserID is 0 for guests.
type PlaceInput struct {
	UserID      uint
	ServiceID   uint
	ClientName  string
	ClientEmail string
	Description string
}

// Place validates the service and creates a pending order. The price is
// copied from the catalog at placement time.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*models.Order, error) {
	svc, err := s.catalog.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}
	o := &models.Order{
		UserID:      in.UserID,
		ServiceID:   in.ServiceID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Description: in.Description,
		Price:       svc.Price,
		Status:      models.OrderPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus is the admin transition; optional notes overwrite when given.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string, notes *string) error {
	if !models.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	updates := map[string]interface{}{"status": status}
	if notes != nil {
		updates["notes"] = *notes
	}
	return s.repo.Update(ctx, id, updates)
}

// AttachPayment records the payment-provider reference on an order.
func (s *Service) AttachPayment(ctx context.Context, id uint, paymentID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, map[string]interface{}{"payment_id": paymentID})
}

// CustomInput is a bespoke quote request; UserID is nil for guests and Budget
// is optional.
type CustomInput struct {
	UserID      *uint
	ClientName  string
	ClientEmail string
	Description string
	Budget      *int64
}

func (s *Service) PlaceCustom(ctx context.Context, in CustomInput) (*models.CustomOrder, error) {
	o := &models.CustomOrder{
		UserID:      in.UserID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Description: in.Description,
		Budget:      in.Budget,
		Status:      models.CustomPending,
	}
	if err := s.repo.CreateCustom(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) GetCustom(ctx context.Context, id uint) (*models.CustomOrder, error) {
	o, err := s.repo.GetCustomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListCustomForUser(ctx context.Context, userID uint) ([]models.CustomOrder, error) {
	return s.repo.ListCustomByUser(ctx, userID)
}

func (s *Service) ListCustomAll(ctx context.Context) ([]models.CustomOrder, error) {
	return s.repo.ListCustomAll(ctx)
}

// UpdateCustomStatus runs the admin quote workflow: status transition with an
// optional quoted price and notes.
func (s *Service) UpdateCustomStatus(ctx context.Context, id uint, status string, quotedPrice *int64, notes *string) error {
	if !models.ValidCustomOrderStatus(status) {
		return ErrInvalidStatus
	}
	if _, err := s.GetCustom(ctx, id); err != nil {
		return err
	}
	updates := map[string]interface{}{"status": status}
	if quotedPrice != nil {
		updates["quoted_price"] = *quotedPrice
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	return s.repo.UpdateCustom(ctx, id, updates)
}

// AttachCustomPayment records a payment reference on a custom order.
func (s *Service) AttachCustomPayment(ctx context.Context, id uint, paymentID string) error {
	if _, err := s.GetCustom(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateCustom(ctx, id, map[string]interface{}{"payment_id": paymentID})
}
