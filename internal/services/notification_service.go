package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"tiffinhub/internal/config"
	"tiffinhub/internal/models"
	"tiffinhub/pkg/logger"
	"tiffinhub/pkg/sms"
)

// NotificationService fans a purchase or assignment event out to the
// channels the customer opted into. Delivery failures are logged and
// swallowed; a missed message must never fail the flow that triggered it.
type NotificationService interface {
	SendPurchaseConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription, transaction *models.Transaction) error
	SendVendorAssigned(ctx context.Context, user *models.User, subscription *models.UserSubscription, vendorName string) error
	SendSkipConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error
	SendCancellation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error
}

type notificationService struct {
	smsProvider sms.SMSProvider
	smtpConfig  *config.SMTPConfig
	logger      *logger.Logger
}

func NewNotificationService(smsProvider sms.SMSProvider, smtpConfig *config.SMTPConfig, logger *logger.Logger) NotificationService {
	return &notificationService{
		smsProvider: smsProvider,
		smtpConfig:  smtpConfig,
		logger:      logger,
	}
}

func (s *notificationService) SendPurchaseConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription, transaction *models.Transaction) error {
	subject := "Your TiffinHub subscription is confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour subscription is active from %s to %s.\nMeal credits: %d\nAmount paid: %.2f %s\n\nBon appetit!\nTeam TiffinHub",
		user.FirstName,
		subscription.StartDate.Format("02 Jan 2006"),
		subscription.EndDate.Format("02 Jan 2006"),
		subscription.CreditsGranted,
		transaction.Amount,
		transaction.Currency,
	)

	whatsapp := fmt.Sprintf(
		"TiffinHub: subscription confirmed! %d meal credits, valid until %s. We are finding the right kitchen for you.",
		subscription.CreditsGranted,
		subscription.EndDate.Format("02 Jan"),
	)

	s.deliver(ctx, user, subject, body, whatsapp)
	return nil
}

func (s *notificationService) SendVendorAssigned(ctx context.Context, user *models.User, subscription *models.UserSubscription, vendorName string) error {
	subject := "Your kitchen has been assigned"
	body := fmt.Sprintf(
		"Hi %s,\n\n%s will be preparing your meals. Deliveries start with your next scheduled meal.\n\nTeam TiffinHub",
		user.FirstName, vendorName,
	)

	whatsapp := fmt.Sprintf("TiffinHub: %s is now your assigned kitchen. Enjoy your meals!", vendorName)

	s.deliver(ctx, user, subject, body, whatsapp)
	return nil
}

func (s *notificationService) SendSkipConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error {
	subject := "Meal skipped"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour meal has been skipped. Skip credits remaining: %d. Subscription valid until %s.\n\nTeam TiffinHub",
		user.FirstName,
		subscription.SkipCreditAvailable,
		subscription.EndDate.Format("02 Jan 2006"),
	)

	whatsapp := fmt.Sprintf(
		"TiffinHub: meal skipped. %d skip credits left, subscription valid until %s.",
		subscription.SkipCreditAvailable,
		subscription.EndDate.Format("02 Jan"),
	)

	s.deliver(ctx, user, subject, body, whatsapp)
	return nil
}

func (s *notificationService) SendCancellation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error {
	subject := "Subscription cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour subscription has been cancelled. We hope to serve you again.\n\nTeam TiffinHub",
		user.FirstName,
	)

	s.deliver(ctx, user, subject, body, "TiffinHub: your subscription has been cancelled.")
	return nil
}

func (s *notificationService) deliver(ctx context.Context, user *models.User, subject, body, whatsappMessage string) {
	if user.Email != "" {
		if err := s.sendEmail(user.Email, subject, body); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to send notification email")
		}
	}

	if user.WhatsAppOptIn && s.smsProvider != nil && user.Phone != "" {
		_, err := s.smsProvider.SendWhatsApp(ctx, &sms.SMSRequest{
			To:      user.WhatsAppNumber(),
			Message: whatsappMessage,
			Type:    "transactional",
		})
		if err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to send WhatsApp notification")
		}
	}
}

func (s *notificationService) sendEmail(to, subject, body string) error {
	if s.smtpConfig == nil || s.smtpConfig.Username == "" {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.smtpConfig.Host, s.smtpConfig.Port)
	auth := smtp.PlainAuth("", s.smtpConfig.Username, s.smtpConfig.Password, s.smtpConfig.Host)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.smtpConfig.FromName, s.smtpConfig.FromEmail),
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.smtpConfig.FromEmail, []string{to}, []byte(msg))
}
