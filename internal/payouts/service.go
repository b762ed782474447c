package payouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/sahilmehra/karigarpay-backend/internal/bookings"
	"github.com/sahilmehra/karigarpay-backend/internal/earnings"
	"github.com/sahilmehra/karigarpay-backend/pkg/config"
	dbpkg "github.com/sahilmehra/karigarpay-backend/pkg/db"
	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/metrics"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox/payloads"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
	"github.com/sahilmehra/karigarpay-backend/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type payoutProvider interface {
	CreateContact(ctx context.Context, req razorpay.CreateContactRequest) (*razorpay.Contact, error)
	CreateFundAccount(ctx context.Context, req razorpay.CreateFundAccountRequest) (*razorpay.FundAccount, error)
	CreatePayout(ctx context.Context, req razorpay.CreatePayoutRequest) (*razorpay.Payout, error)
	GetPayout(ctx context.Context, payoutID string) (*razorpay.Payout, error)
}

// Service drives the worker payment lifecycle from creation through the
// provider leg to a terminal state.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*models.WorkerPayment, error)
	ProcessPayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error)
	ProcessPendingPayments(ctx context.Context) (int, error)
	ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error)
	ListStuckProcessing(ctx context.Context) ([]models.WorkerPayment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error)
	ListWorkerPayments(ctx context.Context, filter ListFilter) ([]models.WorkerPayment, *pagination.Result, error)
	CancelPayment(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) (*models.WorkerPayment, error)
}

type service struct {
	repo       Repository
	bookings   bookings.Repository
	earnings   earnings.Service
	tx         txRunner
	outbox     outboxPublisher
	provider   payoutProvider
	razorpay   config.RazorpayConfig
	payoutCfg  config.PayoutConfig
	metrics    *metrics.PayoutMetrics
	logg       *logger.Logger
	feePercent decimal.Decimal
}

// NewService builds the payout service with the required dependencies.
func NewService(
	repo Repository,
	bookingsRepo bookings.Repository,
	earningsSvc earnings.Service,
	tx txRunner,
	outboxSvc outboxPublisher,
	provider payoutProvider,
	razorpayCfg config.RazorpayConfig,
	payoutCfg config.PayoutConfig,
	payoutMetrics *metrics.PayoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payouts repository required")
	}
	if bookingsRepo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if earningsSvc == nil {
		return nil, fmt.Errorf("earnings service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payout provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	feePercent, err := decimal.NewFromString(payoutCfg.PlatformFeePercent)
	if err != nil {
		return nil, fmt.Errorf("invalid platform fee percent %q: %w", payoutCfg.PlatformFeePercent, err)
	}

	return &service{
		repo:       repo,
		bookings:   bookingsRepo,
		earnings:   earningsSvc,
		tx:         tx,
		outbox:     outboxSvc,
		provider:   provider,
		razorpay:   razorpayCfg,
		payoutCfg:  payoutCfg,
		metrics:    payoutMetrics,
		logg:       logg,
		feePercent: feePercent,
	}, nil
}

// SplitAmount divides a gross booking amount into platform fee and worker net.
// The fee is rounded half-up to whole paise and the net absorbs the remainder
// so fee + net always equals the gross amount.
func (s *service) SplitAmount(amountPaise int64) (fee int64, net int64) {
	gross := decimal.NewFromInt(amountPaise)
	feeDec := gross.Mul(s.feePercent).Div(decimal.NewFromInt(100)).Round(0)
	fee = feeDec.IntPart()
	net = amountPaise - fee
	return fee, net
}

func (s *service) CreatePayment(ctx context.Context, input CreatePaymentInput) (*models.WorkerPayment, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	booking, err := s.bookings.FindByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.Status != enums.BookingStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is not completed")
	}
	if booking.PaymentStatus != enums.CustomerPaymentCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer payment not completed")
	}
	if booking.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking amount must be positive")
	}

	account, err := s.bookings.FindBankAccountByWorkerID(ctx, booking.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker bank details not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker bank details")
	}

	fee, net := s.SplitAmount(booking.AmountPaise)

	payment := &models.WorkerPayment{
		ID:          uuid.New(),
		WorkerID:    booking.WorkerID,
		CustomerID:  booking.CustomerID,
		BookingID:   booking.ID,
		AmountPaise: booking.AmountPaise,
		PlatformFee: fee,
		NetAmount:   net,
		Currency:    s.payoutCfg.Currency,
		Status:      enums.PayoutStatusPending,
		BankDetails: models.BankDetails{
			AccountNumber: account.AccountNumber,
			IFSC:          account.IFSC,
			HolderName:    account.HolderName,
			BankName:      account.BankName,
		},
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, payment); err != nil {
			return err
		}

		bookingID := booking.ID
		paymentID := payment.ID
		if _, err := s.earnings.AddEarning(ctx, tx, earnings.MutationInput{
			WorkerID:    booking.WorkerID,
			AmountPaise: net,
			BookingID:   &bookingID,
			PaymentID:   &paymentID,
			Description: fmt.Sprintf("earnings for booking %s", booking.ID),
		}); err != nil {
			return err
		}

		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPayoutRequested,
			AggregateType: enums.AggregateWorkerPayment,
			AggregateID:   payment.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data: payloads.PayoutRequestedEvent{
				PaymentID:      payment.ID,
				WorkerID:       payment.WorkerID,
				BookingID:      payment.BookingID,
				NetAmountPaise: payment.NetAmount,
				Currency:       payment.Currency,
			},
		})
	})
	if err != nil {
		if isDuplicateBooking(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment already exists for booking")
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create worker payment")
	}
	s.earnings.InvalidateSnapshot(ctx, booking.WorkerID)

	logCtx := s.logg.WithPaymentID(ctx, payment.ID.String())
	s.logg.Info(logCtx, "worker payment created")
	return payment, nil
}

func (s *service) ProcessPayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	if paymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	ctx = s.logg.WithPaymentID(ctx, paymentID.String())

	var payment *models.WorkerPayment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if found.Status != enums.PayoutStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending")
		}

		now := time.Now()
		found.Status = enums.PayoutStatusProcessing
		found.ProcessedAt = &now
		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment processing")
		}
		payment = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	snapshot, err := s.earnings.GetSnapshot(ctx, payment.WorkerID)
	if err != nil {
		return nil, err
	}
	if snapshot.AvailableBalance < payment.NetAmount {
		reason := "available balance below worker amount"
		if finalizeErr := s.finalize(ctx, payment.ID, enums.PayoutStatusFailed, nil, &reason, nil); finalizeErr != nil {
			return nil, finalizeErr
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance below worker amount")
	}

	providerPayout, err := s.initiateProviderPayout(ctx, payment)
	if err != nil {
		reason := err.Error()
		if finalizeErr := s.finalize(ctx, payment.ID, enums.PayoutStatusFailed, nil, &reason, nil); finalizeErr != nil {
			return nil, multierr.Append(err, finalizeErr)
		}
		payment.Status = enums.PayoutStatusFailed
		payment.FailureReason = &reason
		return payment, nil
	}

	mapped := razorpay.MapPayoutStatus(providerPayout.Status)
	switch mapped {
	case enums.PayoutStatusProcessing:
		// Terminal state arrives later via webhook or reconciliation.
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			found, err := repo.FindByIDForUpdate(ctx, payment.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
			}
			found.ProviderRefID = &providerPayout.ID
			if err := repo.Update(ctx, found); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store provider reference")
			}
			payment = found
			return nil
		})
		if err != nil {
			return nil, err
		}
		return payment, nil

	default:
		var failureReason *string
		if providerPayout.FailureReason != "" {
			failureReason = &providerPayout.FailureReason
		}
		if err := s.finalize(ctx, payment.ID, mapped, &providerPayout.ID, failureReason, nil); err != nil {
			return nil, err
		}
		return s.GetPayment(ctx, payment.ID)
	}
}

func (s *service) initiateProviderPayout(ctx context.Context, payment *models.WorkerPayment) (*razorpay.Payout, error) {
	account, err := s.bookings.FindBankAccountByWorkerID(ctx, payment.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no bank account on file for worker %s", payment.WorkerID)
		}
		return nil, fmt.Errorf("load bank account: %w", err)
	}

	if account.ProviderContactID == nil {
		start := time.Now()
		contact, err := s.provider.CreateContact(ctx, razorpay.CreateContactRequest{
			Name:        account.HolderName,
			Email:       account.Email,
			Phone:       account.Phone,
			ReferenceID: payment.WorkerID.String(),
		})
		s.metrics.ObserveProviderLatency(time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("create provider contact: %w", err)
		}
		account.ProviderContactID = &contact.ID
		if err := s.bookings.SaveBankAccountProviderIDs(ctx, account); err != nil {
			return nil, fmt.Errorf("store provider contact id: %w", err)
		}
	}

	if account.ProviderFundID == nil {
		// Fund account targets the details snapshotted on the payment, not
		// whatever the worker's bank profile says now.
		start := time.Now()
		fund, err := s.provider.CreateFundAccount(ctx, razorpay.CreateFundAccountRequest{
			ContactID: *account.ProviderContactID,
			BankAccount: razorpay.BankAccount{
				Name:          payment.BankDetails.HolderName,
				IFSC:          payment.BankDetails.IFSC,
				AccountNumber: payment.BankDetails.AccountNumber,
			},
		})
		s.metrics.ObserveProviderLatency(time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("create provider fund account: %w", err)
		}
		account.ProviderFundID = &fund.ID
		if err := s.bookings.SaveBankAccountProviderIDs(ctx, account); err != nil {
			return nil, fmt.Errorf("store provider fund id: %w", err)
		}
	}

	start := time.Now()
	payout, err := s.provider.CreatePayout(ctx, razorpay.CreatePayoutRequest{
		AccountNumber: s.razorpay.AccountNumber,
		FundAccountID: *account.ProviderFundID,
		Amount:        payment.NetAmount,
		Currency:      payment.Currency,
		Mode:          s.razorpay.Mode,
		ReferenceID:   payment.ID.String(),
		Narration:     fmt.Sprintf("payout for booking %s", payment.BookingID),
	})
	s.metrics.ObserveProviderLatency(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create provider payout: %w", err)
	}
	return payout, nil
}

// finalize moves a processing payment into a terminal state. PAID debits
// the ledger in the same transaction; FAILED leaves balances untouched so
// the payout can be retried administratively.
func (s *service) finalize(ctx context.Context, paymentID uuid.UUID, status enums.PayoutStatus, providerRefID, failureReason *string, actor *outbox.ActorRef) error {
	if !status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeValidation, "finalize requires a terminal status")
	}

	var debitedWorker uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		payment, err := repo.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if payment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already resolved")
		}

		if status == enums.PayoutStatusPaid {
			pid := payment.ID
			if _, err := s.earnings.ProcessPayout(ctx, tx, earnings.MutationInput{
				WorkerID:    payment.WorkerID,
				AmountPaise: payment.NetAmount,
				PaymentID:   &pid,
				Description: fmt.Sprintf("payout settled for payment %s", payment.ID),
			}); err != nil {
				return err
			}
			now := time.Now()
			payment.PaidAt = &now
			txnID := newTransactionID()
			payment.TransactionID = &txnID
			debitedWorker = payment.WorkerID
		}

		payment.Status = status
		if providerRefID != nil {
			payment.ProviderRefID = providerRefID
		}
		payment.FailureReason = failureReason
		if err := repo.Update(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}

		resolved := payloads.PayoutResolvedEvent{
			PaymentID:  payment.ID,
			WorkerID:   payment.WorkerID,
			Status:     status,
			ResolvedAt: time.Now(),
		}
		if payment.ProviderRefID != nil {
			resolved.ProviderRefID = *payment.ProviderRefID
		}
		if failureReason != nil {
			resolved.FailureReason = *failureReason
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPayoutResolved,
			AggregateType: enums.AggregateWorkerPayment,
			AggregateID:   payment.ID,
			Version:       1,
			Actor:         actor,
			Data:          resolved,
		}); err != nil {
			return err
		}

		s.metrics.IncOutcome(status.String())
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"payment_id": payment.ID.String(),
			"status":     status.String(),
		})
		s.logg.Info(logCtx, "worker payment resolved")
		return nil
	})
	if err != nil {
		return err
	}
	if debitedWorker != uuid.Nil {
		s.earnings.InvalidateSnapshot(ctx, debitedWorker)
	}
	return nil
}

func (s *service) ProcessPendingPayments(ctx context.Context) (int, error) {
	pending, err := s.repo.ListByStatus(ctx, enums.PayoutStatusPending, s.payoutCfg.PendingBatchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending payments")
	}

	var processed int
	var errs error
	for i := range pending {
		if ctx.Err() != nil {
			return processed, multierr.Append(errs, ctx.Err())
		}
		if _, err := s.ProcessPayment(ctx, pending[i].ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("payment %s: %w", pending[i].ID, err))
			continue
		}
		processed++
		if s.payoutCfg.ProcessDelay > 0 && i < len(pending)-1 {
			time.Sleep(s.payoutCfg.ProcessDelay)
		}
	}
	return processed, errs
}

func (s *service) ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	payment, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != enums.PayoutStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not processing")
	}
	if payment.ProviderRefID == nil {
		// Never reached the provider, so there is nothing to query. Fail it
		// with a reason; the ledger stays untouched for a manual retry.
		reason := "provider payout was never created"
		if err := s.finalize(ctx, payment.ID, enums.PayoutStatusFailed, nil, &reason, nil); err != nil {
			return nil, err
		}
		return s.GetPayment(ctx, payment.ID)
	}

	start := time.Now()
	providerPayout, err := s.provider.GetPayout(ctx, *payment.ProviderRefID)
	s.metrics.ObserveProviderLatency(time.Since(start))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch provider payout")
	}

	mapped := razorpay.MapPayoutStatus(providerPayout.Status)
	if mapped == enums.PayoutStatusProcessing {
		return payment, nil
	}

	var failureReason *string
	if providerPayout.FailureReason != "" {
		failureReason = &providerPayout.FailureReason
	}
	if err := s.finalize(ctx, payment.ID, mapped, payment.ProviderRefID, failureReason, nil); err != nil {
		return nil, err
	}
	return s.GetPayment(ctx, payment.ID)
}

func (s *service) ListStuckProcessing(ctx context.Context) ([]models.WorkerPayment, error) {
	cutoff := time.Now().Add(-s.payoutCfg.StuckThreshold)
	payments, err := s.repo.ListProcessingOlderThan(ctx, cutoff, s.payoutCfg.PendingBatchSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stuck payments")
	}
	return payments, nil
}

func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

func (s *service) ListWorkerPayments(ctx context.Context, filter ListFilter) ([]models.WorkerPayment, *pagination.Result, error) {
	if filter.WorkerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "worker id required")
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payout status filter")
	}
	filter.Params = pagination.Normalize(filter.Params)

	payments, total, err := s.repo.ListByWorker(ctx, filter)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list worker payments")
	}
	result := pagination.BuildResult(filter.Params, total)
	return payments, &result, nil
}

func (s *service) CancelPayment(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) (*models.WorkerPayment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	var payment *models.WorkerPayment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if found.Status != enums.PayoutStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending payments can be cancelled")
		}

		pid := found.ID
		if _, err := s.earnings.ReverseEarning(ctx, tx, earnings.MutationInput{
			WorkerID:    found.WorkerID,
			AmountPaise: found.NetAmount,
			PaymentID:   &pid,
			Description: fmt.Sprintf("reverse credit for cancelled payment %s", found.ID),
		}); err != nil {
			return err
		}

		found.Status = enums.PayoutStatusCancelled
		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel payment")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPayoutResolved,
			AggregateType: enums.AggregateWorkerPayment,
			AggregateID:   found.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.PayoutResolvedEvent{
				PaymentID:  found.ID,
				WorkerID:   found.WorkerID,
				Status:     enums.PayoutStatusCancelled,
				ResolvedAt: time.Now(),
			},
		}); err != nil {
			return err
		}

		payment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.earnings.InvalidateSnapshot(ctx, payment.WorkerID)

	s.metrics.IncOutcome(enums.PayoutStatusCancelled.String())
	logCtx := s.logg.WithPaymentID(ctx, payment.ID.String())
	s.logg.Info(logCtx, "worker payment cancelled")
	return payment, nil
}

func buildActor(userID uuid.UUID, role enums.ActorRole) *outbox.ActorRef {
	if userID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: userID, Role: role.String()}
}

func isDuplicateBooking(err error) bool {
	return dbpkg.IsUniqueViolation(err, "uq_worker_payments_booking")
}

// newTransactionID mints the local reference stored on a paid payment.
func newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), suffix)
}
