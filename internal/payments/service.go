package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/internal/orders"
	"github.com/kisansetu/kisansetu-backend/pkg/config"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/metrics"
)

const (
	providerCheckAttempts = 3
	providerCheckBackoff  = 200 * time.Millisecond
)

var minorUnitsPerRupee = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the payment workflow operations.
type Service interface {
	CreateCheckoutSession(ctx context.Context, consumerID uuid.UUID, req CheckoutSessionRequest) (*CheckoutSessionDTO, error)
	VerifyPayment(ctx context.Context, consumerID uuid.UUID, req VerifyPaymentRequest) (*PaymentDTO, error)
	RecordCashPayment(ctx context.Context, consumerID uuid.UUID, req CashPaymentRequest) (*PaymentDTO, error)
}

type service struct {
	repo        *Repository
	orders      *orders.Repository
	provider    CheckoutProvider
	tx          txRunner
	checkoutCfg config.CheckoutConfig
	metrics     *metrics.OrderMetrics
	sleep       func(time.Duration)
}

// ServiceParams bundles the dependencies for the payment service.
type ServiceParams struct {
	Repo        *Repository
	Orders      *orders.Repository
	Provider    CheckoutProvider
	Tx          txRunner
	CheckoutCfg config.CheckoutConfig
	Metrics     *metrics.OrderMetrics
}

// NewService builds a payment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("checkout provider required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.CheckoutCfg.Currency))
	if currency == "" {
		currency = "inr"
	}
	params.CheckoutCfg.Currency = currency
	return &service{
		repo:        params.Repo,
		orders:      params.Orders,
		provider:    params.Provider,
		tx:          params.Tx,
		checkoutCfg: params.CheckoutCfg,
		metrics:     params.Metrics,
		sleep:       time.Sleep,
	}, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, consumerID uuid.UUID, req CheckoutSessionRequest) (*CheckoutSessionDTO, error) {
	order, err := s.loadOwnedOrder(ctx, consumerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not an online payment order")
	}
	if order.Status != enums.OrderStatusApproved && order.Status != enums.OrderStatusPaymentPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	total := order.TotalAmount()
	// Stripe wants the amount in the currency's minor unit.
	amountMinor := total.Mul(minorUnitsPerRupee).IntPart()
	if amountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order amount must be positive")
	}

	session, err := s.provider.CreateSession(ctx, CreateSessionInput{
		OrderID:     order.ID.String(),
		Description: fmt.Sprintf("%s x%d", order.CropName, order.RequestedQuantity),
		AmountMinor: amountMinor,
		Currency:    s.checkoutCfg.Currency,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	if order.Status == enums.OrderStatusApproved {
		swapped, err := s.orders.CompareAndSwapStatus(ctx, order.ID,
			enums.OrderStatusApproved, enums.OrderStatusPaymentPending, nil)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment pending")
		}
		if swapped {
			s.metrics.IncTransition(string(enums.OrderStatusPaymentPending))
		}
	}

	session.Amount = total
	return session, nil
}

// VerifyPayment settles an online order. It re-checks the session with the
// provider and is safe to call any number of times: once an order has a
// settled payment, later calls return that payment unchanged.
func (s *service) VerifyPayment(ctx context.Context, consumerID uuid.UUID, req VerifyPaymentRequest) (*PaymentDTO, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	order, err := s.loadOwnedOrder(ctx, consumerID, req.OrderID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindSuccessByOrder(ctx, order.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup payment")
	} else if existing != nil {
		return FromModel(existing), nil
	}

	if order.Status != enums.OrderStatusApproved && order.Status != enums.OrderStatusPaymentPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	state, err := s.checkProvider(ctx, req.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session with provider")
	}
	if !state.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed")
	}

	return s.settle(ctx, order, enums.SettlementMethodCard, req.SessionID)
}

// RecordCashPayment settles a cash order without a provider round trip.
func (s *service) RecordCashPayment(ctx context.Context, consumerID uuid.UUID, req CashPaymentRequest) (*PaymentDTO, error) {
	order, err := s.loadOwnedOrder(ctx, consumerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodCash {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not a cash payment order")
	}

	if existing, err := s.repo.FindSuccessByOrder(ctx, order.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup payment")
	} else if existing != nil {
		return FromModel(existing), nil
	}

	if order.Status != enums.OrderStatusApproved && order.Status != enums.OrderStatusPaymentPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	return s.settle(ctx, order, enums.SettlementMethodCash, "")
}

// settle flips the order to paid and records the settlement in one
// transaction. The paid flip is a guarded update, so a concurrent settle of
// the same order loses cleanly and returns the winner's payment.
func (s *service) settle(ctx context.Context, order *models.Order, method enums.SettlementMethod, transactionID string) (*PaymentDTO, error) {
	now := time.Now().UTC()
	var payment *models.Payment

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		swapped, err := ordersRepo.MarkPaid(ctx, order.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !swapped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order settled concurrently")
		}

		record := &models.Payment{
			OrderID:    order.ID,
			ConsumerID: order.ConsumerID,
			FarmerID:   order.FarmerID,
			Amount:     order.TotalAmount(),
			Method:     method,
			Status:     enums.PaymentStatusSuccess,
			PaidAt:     &now,
		}
		if transactionID != "" {
			record.TransactionID = &transactionID
		}
		created, err := s.repo.WithTx(tx).Create(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		payment = created
		return nil
	})
	if err != nil {
		// lost the settle race: surface the winner's payment instead
		appErr := pkgerrors.As(err)
		if appErr != nil && appErr.Code() == pkgerrors.CodeStateConflict {
			if existing, lookupErr := s.repo.FindSuccessByOrder(ctx, order.ID); lookupErr == nil && existing != nil {
				return FromModel(existing), nil
			}
		}
		return nil, err
	}

	s.metrics.IncTransition(string(enums.OrderStatusPaid))
	s.metrics.IncPayment(string(method))
	return FromModel(payment), nil
}

// checkProvider retries transient provider failures a few times before
// giving up. A definitive unpaid answer is returned immediately.
func (s *service) checkProvider(ctx context.Context, sessionID string) (*SessionState, error) {
	var lastErr error
	for attempt := 0; attempt < providerCheckAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(providerCheckBackoff * time.Duration(attempt))
		}
		state, err := s.provider.GetSession(ctx, sessionID)
		if err == nil {
			return state, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (s *service) loadOwnedOrder(ctx context.Context, consumerID, orderID uuid.UUID) (*models.Order, error) {
	if consumerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ConsumerID != consumerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to consumer")
	}
	return order, nil
}
