package service

import (
	"driveline/internal/entities"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SenderService delivers customer email and SMS for lifecycle events and the
// staff digest. Delivery is best-effort: a failed send is logged and never
// rolls back engine state.
type SenderService struct {
	logger *zap.Logger
}

func NewSenderService(logger *zap.Logger) *SenderService {
	return &SenderService{logger: logger}
}

// NotifyReservation emails and texts the customer about a lifecycle event,
// asynchronously so handlers never wait on external providers.
func (s *SenderService) NotifyReservation(reservation *entities.ReservationResponse, status string) {
	data := entities.ReservationEmailData{
		CustomerName:    reservation.CustomerName,
		ReservationCode: reservation.Code,
		VehicleName:     reservation.VehicleName,
		StartFormatted:  reservation.StartDate,
		EndFormatted:    reservation.EndDate,
		Total:           reservation.Total,
		Status:          status,
		CurrentYear:     time.Now().Year(),
	}

	subject := fmt.Sprintf("Your DriveLine reservation is %s - Code: %s", status, data.ReservationCode)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour DriveLine reservation is %s.\n\n"+
			"Reservation details:\n"+
			"Code: %s\n"+
			"Vehicle: %s\n"+
			"Pick-up: %s\n"+
			"Return: %s\n"+
			"Total: %d\n\n"+
			"Thank you for choosing DriveLine.\n",
		data.CustomerName, status, data.ReservationCode, data.VehicleName,
		data.StartFormatted, data.EndFormatted, data.Total,
	)

	go func() {
		if err := s.sendEmail(reservation.CustomerEmail, data.CustomerName, subject, body); err != nil {
			s.logger.Warn("reservation email failed",
				zap.String("code", data.ReservationCode), zap.Error(err))
		}
	}()

	if reservation.CustomerPhone != "" {
		sms := fmt.Sprintf("DriveLine: reservation %s is %s. Pick-up: %s. Details in your email.",
			data.ReservationCode, status, data.StartFormatted)
		go func() {
			if err := s.sendSMS(reservation.CustomerPhone, sms); err != nil {
				s.logger.Warn("reservation SMS failed",
					zap.String("code", data.ReservationCode), zap.Error(err))
			}
		}()
	}
}

// SendStaffDigest emails the operations inbox, used by the overdue cron job.
func (s *SenderService) SendStaffDigest(subject, body string) error {
	to := os.Getenv("STAFF_DIGEST_EMAIL")
	if to == "" {
		return fmt.Errorf("STAFF_DIGEST_EMAIL not set")
	}
	return s.sendEmail(to, "DriveLine Staff", subject, body)
}

func (s *SenderService) sendEmail(toEmail, toName, subject, body string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "DriveLine"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *SenderService) sendSMS(toNumber, body string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		s.logger.Warn("destination number not in E.164 format", zap.String("to", toNumber))
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}
