package api

import (
	"driveline/internal/service"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

type StripeWebhookHandler struct {
	StripeSecret   string
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewStripeWebhookHandler(stripeSecret string, paymentService *service.PaymentService, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:   stripeSecret,
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("error reading webhook body", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			h.logger.Error("error parsing checkout session", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.paymentService.SettleByStripeSession(sess.ID); err != nil {
			h.logger.Error("error settling payment for session", zap.String("session_id", sess.ID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.logger.Info("online payment settled", zap.String("session_id", sess.ID))

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err == nil && charge.PaymentIntent != nil {
			h.logger.Info("charge refunded", zap.String("payment_intent", charge.PaymentIntent.ID))
		}

	default:
		h.logger.Info("unhandled stripe event", zap.String("type", string(event.Type)))
	}

	w.WriteHeader(http.StatusOK)
}
