package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/internal/products"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Actor identifies who is driving an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, consumerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	GetByID(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListForConsumer(ctx context.Context, consumerID uuid.UUID) ([]OrderDTO, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]OrderDTO, error)
	Transition(ctx context.Context, actor Actor, orderID uuid.UUID, req TransitionRequest) (*OrderDTO, error)
}

// transitions is the order state machine. Each edge names the role allowed
// to drive it; paid is reachable only through the payment workflow.
var transitions = map[enums.OrderStatus]map[enums.OrderStatus]enums.UserRole{
	enums.OrderStatusRequested: {
		enums.OrderStatusApproved: enums.UserRoleFarmer,
		enums.OrderStatusRejected: enums.UserRoleFarmer,
	},
	enums.OrderStatusApproved: {
		enums.OrderStatusPaymentPending: enums.UserRoleConsumer,
	},
	enums.OrderStatusPaid: {
		enums.OrderStatusCompleted: enums.UserRoleFarmer,
	},
}

type service struct {
	repo      *Repository
	products  productReader
	inventory products.InventoryReserver
	tx        txRunner
	metrics   *metrics.OrderMetrics
}

// ServiceParams bundles the dependencies for the order service.
type ServiceParams struct {
	Repo      *Repository
	Products  productReader
	Inventory products.InventoryReserver
	Tx        txRunner
	Metrics   *metrics.OrderMetrics
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory reserver required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		products:  params.Products,
		inventory: params.Inventory,
		tx:        params.Tx,
		metrics:   params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, consumerID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	if consumerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	method, err := enums.ParsePaymentMethod(strings.ToLower(req.PaymentMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_method must be online or cash")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}
	if product.FarmerID == consumerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot order own listing")
	}
	if product.Quantity < req.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough quantity available").
			WithDetails(map[string]any{"available": product.Quantity})
	}

	// Price snapshots: later edits to the listing never change this order.
	negotiated := product.Price
	if req.NegotiatedPrice != nil {
		if req.NegotiatedPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "negotiated_price must not be negative")
		}
		negotiated = *req.NegotiatedPrice
	}

	order, err := s.repo.Create(ctx, &models.Order{
		ProductID:         product.ID,
		FarmerID:          product.FarmerID,
		ConsumerID:        consumerID,
		CropName:          product.CropName,
		RequestedQuantity: req.Quantity,
		OriginalPrice:     product.Price,
		NegotiatedPrice:   negotiated,
		PaymentMethod:     method,
		Status:            enums.OrderStatusRequested,
		OrderDate:         time.Now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.metrics.IncTransition(string(enums.OrderStatusRequested))
	return FromModel(order), nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadVisible(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) ListForConsumer(ctx context.Context, consumerID uuid.UUID) ([]OrderDTO, error) {
	if consumerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consumer orders")
	}
	return FromModels(rows), nil
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]OrderDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer orders")
	}
	return FromModels(rows), nil
}

func (s *service) Transition(ctx context.Context, actor Actor, orderID uuid.UUID, req TransitionRequest) (*OrderDTO, error) {
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadVisible(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	allowedRole, ok := transitions[order.Status][target]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}
	if actor.Role != allowedRole {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed to apply this transition")
	}
	if allowedRole == enums.UserRoleFarmer && order.FarmerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to farmer")
	}
	if allowedRole == enums.UserRoleConsumer && order.ConsumerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to consumer")
	}

	switch target {
	case enums.OrderStatusApproved:
		err = s.approve(ctx, order, req.FinalPrice)
	default:
		err = s.swap(ctx, order, target)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	s.metrics.IncTransition(string(updated.Status))
	return FromModel(updated), nil
}

// approve stamps the final price, flips the order, and deducts stock in one
// transaction. A lost stock race rolls the status change back.
func (s *service) approve(ctx context.Context, order *models.Order, finalPrice *decimal.Decimal) error {
	price := order.NegotiatedPrice
	if finalPrice != nil {
		if finalPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "final_price must not be negative")
		}
		price = *finalPrice
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		swapped, err := repo.MarkApproved(ctx, order.ID, price, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve order")
		}
		if !swapped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is no longer awaiting approval")
		}
		return s.inventory.Reserve(ctx, tx, order.ProductID, order.RequestedQuantity)
	})
}

func (s *service) swap(ctx context.Context, order *models.Order, target enums.OrderStatus) error {
	swapped, err := s.repo.CompareAndSwapStatus(ctx, order.ID, order.Status, target, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !swapped {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order state changed concurrently")
	}
	return nil
}

func (s *service) loadVisible(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ConsumerID != actor.UserID && order.FarmerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is not visible to user")
	}
	return order, nil
}
