package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"driveline/internal/api"
	"driveline/internal/auth"
	"driveline/internal/repository"
	"driveline/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("failed to open DB", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	reservationRepo := repository.NewReservationRepository(database)
	fleetRepo := repository.NewFleetRepository(database)
	promotionRepo := repository.NewPromotionRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	staffRepo := repository.NewStaffRepository(database)
	ackRepo := repository.NewAckRepository(database)
	jobRepo := repository.NewJobRepository(database)

	stripeSvc := service.NewStripeService()
	senderSvc := service.NewSenderService(logger)

	storageSvc, err := service.NewStorageService(context.Background(), logger)
	if err != nil {
		logger.Warn("evidence storage disabled", zap.Error(err))
		storageSvc = nil
	}

	reservationSvc := service.NewReservationService(
		reservationRepo, fleetRepo, promotionRepo, paymentRepo,
		settingsRepo, stripeSvc, senderSvc, logger,
	)
	paymentSvc := service.NewPaymentService(paymentRepo, reservationRepo, stripeSvc, storageSvc, logger)
	promotionSvc := service.NewPromotionService(promotionRepo)
	fleetSvc := service.NewFleetService(fleetRepo)
	notificationSvc := service.NewNotificationService(reservationRepo, ackRepo)
	staffAuthSvc := service.NewStaffAuthService(staffRepo)
	jobSvc := service.NewJobService(jobRepo, senderSvc, logger)

	reservationHandler := api.NewReservationHandler(reservationSvc, fleetSvc)
	adminHandler := api.NewAdminHandler(reservationSvc, fleetSvc, settingsRepo)
	paymentHandler := api.NewPaymentHandler(paymentSvc)
	promotionHandler := api.NewPromotionHandler(promotionSvc)
	notificationHandler := api.NewNotificationHandler(notificationSvc)
	authHandler := api.NewAuthHandler(staffAuthSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), paymentSvc, logger)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/vehicles", reservationHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/unavailable-dates", reservationHandler.UnavailableDates).Methods("GET")
	r.HandleFunc("/api/quote", reservationHandler.Quote).Methods("POST")
	r.HandleFunc("/api/reservations", reservationHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{code}", reservationHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{code}", reservationHandler.CancelReservation).Methods("DELETE")
	r.HandleFunc("/api/reservations/{code}/pay", paymentHandler.StartOnlinePayment).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/admin/login", authHandler.Login).Methods("POST")

	// Staff endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.StaffAuthMiddleware)
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations", adminHandler.CreateReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}", adminHandler.UpdateReservation).Methods("PUT")
	admin.HandleFunc("/reservations/{id}", adminHandler.DeleteReservation).Methods("DELETE")
	admin.HandleFunc("/reservations/{id}/confirm", adminHandler.ConfirmReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}/activate", adminHandler.ActivateReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}/complete", adminHandler.CompleteReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}/cancel", adminHandler.CancelReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}/payments", paymentHandler.RecordPayment).Methods("POST")
	admin.HandleFunc("/reservations/{id}/settlement", paymentHandler.GetSettlement).Methods("GET")
	admin.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	admin.HandleFunc("/payments/{id}/settle", paymentHandler.SettlePayment).Methods("POST")
	admin.HandleFunc("/payments/{id}/reject", paymentHandler.RejectPayment).Methods("POST")
	admin.HandleFunc("/vehicles", adminHandler.ListVehicles).Methods("GET")
	admin.HandleFunc("/vehicles", adminHandler.CreateVehicle).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", adminHandler.UpdateVehicle).Methods("PUT")
	admin.HandleFunc("/vehicles/{id}", adminHandler.DeleteVehicle).Methods("DELETE")
	admin.HandleFunc("/drivers", adminHandler.ListDrivers).Methods("GET")
	admin.HandleFunc("/drivers", adminHandler.CreateDriver).Methods("POST")
	admin.HandleFunc("/drivers/{id}", adminHandler.UpdateDriver).Methods("PUT")
	admin.HandleFunc("/drivers/{id}", adminHandler.DeleteDriver).Methods("DELETE")
	admin.HandleFunc("/promotions", promotionHandler.ListPromotions).Methods("GET")
	admin.HandleFunc("/promotions", promotionHandler.CreatePromotion).Methods("POST")
	admin.HandleFunc("/promotions/{id}", promotionHandler.UpdatePromotion).Methods("PUT")
	admin.HandleFunc("/promotions/{id}", promotionHandler.DeletePromotion).Methods("DELETE")
	admin.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods("GET")
	admin.HandleFunc("/notifications/ack", notificationHandler.AcknowledgeNotifications).Methods("POST")
	admin.HandleFunc("/staff", authHandler.CreateStaff).Methods("POST")
	admin.HandleFunc("/settings", adminHandler.GetSettings).Methods("GET")
	admin.HandleFunc("/settings", adminHandler.UpdateSettings).Methods("PUT")

	c := cron.New()
	if _, err := c.AddFunc("0 8 * * *", func() {
		if err := jobSvc.SendOverdueDigest(); err != nil {
			logger.Error("overdue digest failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("failed to schedule overdue digest", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
