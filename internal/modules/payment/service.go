package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studiobook/internal/domain"
	"studiobook/internal/modules/booking"
)

// Config carries the gateway credentials and callback URLs. Password1 signs
// outbound checkout links and success redirects, Password2 verifies the
// server-to-server result callback.
type Config struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	ResultURL     string
	SuccessURL    string
	FailURL       string
	TestMode      bool
}

type Service struct {
	payments  PaymentRepository
	lifecycle BookingLifecycle
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(payments PaymentRepository, lifecycle BookingLifecycle, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		payments:  payments,
		lifecycle: lifecycle,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// InitCheckout builds a signed gateway checkout link for a pending
// reservation. The amount always comes from the stored booking price, never
// from the caller. On success the hold moves to payment_pending and the
// countdown keeps running until the gateway reports back.
func (s *Service) InitCheckout(ctx context.Context, bookingID, userID int64) (*InitCheckoutResponse, error) {
	if s.cfg.MerchantLogin == "" || s.cfg.Password1 == "" || s.cfg.Password2 == "" {
		return nil, ErrNotConfigured
	}

	b, err := s.lifecycle.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !b.Status.Pending() {
		return nil, ErrNotPayable
	}

	// transition first: an expired hold must not leave an orphaned payment row
	if err := s.lifecycle.MarkPaymentPending(ctx, b.ID); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	invID := s.now().UnixNano()
	outSum := formatAmount(b.TotalPrice)
	description := fmt.Sprintf("Studio booking #%d", b.ID)

	shp := map[string]string{"order": orderID}
	signature := s.signatureForInit(outSum, invID, shp)

	u := url.Values{}
	u.Set("MerchantLogin", s.cfg.MerchantLogin)
	u.Set("OutSum", outSum)
	u.Set("InvId", strconv.FormatInt(invID, 10))
	u.Set("Description", description)
	u.Set("SignatureValue", signature)
	if s.cfg.TestMode {
		u.Set("IsTest", "1")
	}
	if s.cfg.ResultURL != "" {
		u.Set("ResultURL", s.cfg.ResultURL)
	}
	if s.cfg.SuccessURL != "" {
		u.Set("SuccessURL", s.cfg.SuccessURL)
	}
	if s.cfg.FailURL != "" {
		u.Set("FailURL", s.cfg.FailURL)
	}
	for k, v := range shp {
		u.Set("Shp_"+k, v)
	}
	paymentURL := s.cfg.BaseURL + "?" + u.Encode()

	p := &domain.GatewayPayment{
		BookingID:   b.ID,
		OrderID:     orderID,
		InvID:       invID,
		OutSum:      outSum,
		Description: description,
		Status:      domain.PaymentCreated,
		Signature:   signature,
		PaymentURL:  paymentURL,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	s.log.Info().Int64("booking_id", b.ID).Int64("inv_id", invID).Str("order_id", orderID).
		Msg("checkout initiated")

	return &InitCheckoutResponse{
		OrderID:    orderID,
		InvID:      invID,
		OutSum:     outSum,
		PaymentURL: paymentURL,
		Status:     string(domain.PaymentCreated),
	}, nil
}

// HandleResultCallback processes the server-to-server notification. The
// gateway retries until it sees "OK{InvId}", so every already-applied outcome
// still acknowledges. A success that lands after the hold expired is refused
// on the booking side and flagged refund_required here; the gateway is still
// acknowledged because the money did move.
func (s *Service) HandleResultCallback(ctx context.Context, outSum string, invID int64, signature string, shpParams map[string]string, rawBody string) (string, error) {
	valid := strings.EqualFold(signature, s.signatureForResult(outSum, invID, shpParams))
	s.log.Info().Int64("inv_id", invID).Bool("signature_valid", valid).Msg("result callback")
	if !valid {
		_ = s.payments.UpdateStatus(ctx, invID, domain.PaymentFailed, rawBody, "invalid signature", nil)
		return "", ErrInvalidSignature
	}

	p, err := s.payments.GetByInvID(ctx, invID)
	if err != nil {
		return "", err
	}
	if !amountEqual(outSum, p.OutSum) {
		reason := fmt.Sprintf("amount mismatch callback=%s expected=%s", outSum, p.OutSum)
		_ = s.payments.UpdateStatus(ctx, invID, domain.PaymentFailed, rawBody, reason, nil)
		return "", ErrAmountMismatch
	}

	changed, err := s.payments.MarkPaidIdempotent(ctx, invID, rawBody, s.now().UTC())
	if err != nil {
		return "", err
	}
	if !changed {
		s.log.Info().Int64("inv_id", invID).Msg("duplicate result callback, already paid")
		return "OK" + strconv.FormatInt(invID, 10), nil
	}

	if err := s.lifecycle.HandlePaymentOutcome(ctx, p.BookingID, true); err != nil {
		if errors.Is(err, booking.ErrReservationExpired) {
			s.log.Warn().Int64("booking_id", p.BookingID).Int64("inv_id", invID).
				Msg("payment arrived after hold expiry, flagging refund")
			_ = s.payments.MarkRefundRequired(ctx, invID, "reservation expired before payment settled")
			return "OK" + strconv.FormatInt(invID, 10), nil
		}
		return "", err
	}

	return "OK" + strconv.FormatInt(invID, 10), nil
}

// HandleSuccessRedirect verifies the browser redirect after payment. It is
// informational; the result callback is the source of truth.
func (s *Service) HandleSuccessRedirect(ctx context.Context, outSum string, invID int64, signature string, shpParams map[string]string, rawBody string) (*domain.GatewayPayment, error) {
	if err := s.payments.SaveSuccessRawBody(ctx, invID, rawBody); err != nil {
		s.log.Error().Err(err).Int64("inv_id", invID).Msg("failed to save success redirect body")
	}

	if !strings.EqualFold(signature, s.signatureForSuccess(outSum, invID, shpParams)) {
		return nil, ErrInvalidSignature
	}

	p, err := s.payments.GetByInvID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if !amountEqual(outSum, p.OutSum) {
		return nil, ErrAmountMismatch
	}

	if p.Status == domain.PaymentCreated {
		_ = s.payments.UpdateStatus(ctx, invID, domain.PaymentPending, "", "", nil)
		p.Status = domain.PaymentPending
	}
	return p, nil
}

// HandleFailRedirect records a customer abandoning or failing checkout and
// releases the hold so the slots free up immediately.
func (s *Service) HandleFailRedirect(ctx context.Context, invID int64, rawBody string) error {
	p, err := s.payments.GetByInvID(ctx, invID)
	if err != nil {
		return err
	}
	if p.Status == domain.PaymentPaid {
		// stale redirect after a successful result callback
		return nil
	}

	if err := s.payments.UpdateStatus(ctx, invID, domain.PaymentFailed, rawBody, "declined by gateway", nil); err != nil {
		return err
	}

	if err := s.lifecycle.HandlePaymentOutcome(ctx, p.BookingID, false); err != nil &&
		!errors.Is(err, booking.ErrInvalidStatusTransition) {
		return err
	}
	return nil
}

func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayPayment, error) {
	return s.payments.GetByOrderID(ctx, orderID)
}

func (s *Service) signatureForInit(outSum string, invID int64, shpParams map[string]string) string {
	parts := []string{s.cfg.MerchantLogin, outSum, strconv.FormatInt(invID, 10), s.cfg.Password1}
	parts = append(parts, flattenShpParams(shpParams)...)
	return md5Hex(strings.Join(parts, ":"))
}

func (s *Service) signatureForResult(outSum string, invID int64, shpParams map[string]string) string {
	parts := []string{outSum, strconv.FormatInt(invID, 10), s.cfg.Password2}
	parts = append(parts, flattenShpParams(shpParams)...)
	return md5Hex(strings.Join(parts, ":"))
}

func (s *Service) signatureForSuccess(outSum string, invID int64, shpParams map[string]string) string {
	parts := []string{outSum, strconv.FormatInt(invID, 10), s.cfg.Password1}
	parts = append(parts, flattenShpParams(shpParams)...)
	return md5Hex(strings.Join(parts, ":"))
}

func flattenShpParams(shp map[string]string) []string {
	keys := make([]string, 0, len(shp))
	for k := range shp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, "Shp_"+k+"="+shp[k])
	}
	return out
}

func amountEqual(a, b string) bool {
	ar, ok := new(big.Rat).SetString(strings.TrimSpace(a))
	if !ok {
		return false
	}
	br, ok := new(big.Rat).SetString(strings.TrimSpace(b))
	if !ok {
		return false
	}
	return ar.Cmp(br) == 0
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func md5Hex(s string) string {
	h := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(h[:]))
}
