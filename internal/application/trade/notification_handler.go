package trade

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
)

const defaultMailTimeout = 10 * time.Second

// NotificationSettings controls the order confirmation email.
type NotificationSettings struct {
	SiteTitle string
	// BaseURL links the email back to the product page; empty omits the link.
	BaseURL string
	// AdminAddress receives a copy of every order; empty disables the copy.
	AdminAddress string
	Timeout      time.Duration
}

// NotificationMetrics observes email delivery outcomes.
type NotificationMetrics interface {
	NotificationSent(ctx context.Context)
	NotificationFailed(ctx context.Context)
}

// OrderPlacedNotificationHandler emails the order confirmation and records a
// Notification for the admin workflow. Its errors are reported to the event
// bus, which logs them; the order itself is never affected.
type OrderPlacedNotificationHandler struct {
	mailer        Mailer
	notifications trade.NotificationRepository
	settings      NotificationSettings
	metrics       NotificationMetrics
	logger        *zap.Logger
}

func NewOrderPlacedNotificationHandler(
	mailer Mailer,
	notifications trade.NotificationRepository,
	settings NotificationSettings,
	logger *zap.Logger,
) *OrderPlacedNotificationHandler {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultMailTimeout
	}
	return &OrderPlacedNotificationHandler{
		mailer:        mailer,
		notifications: notifications,
		settings:      settings,
		logger:        logger,
	}
}

func (h *OrderPlacedNotificationHandler) WithMetrics(m NotificationMetrics) *OrderPlacedNotificationHandler {
	h.metrics = m
	return h
}

func (h *OrderPlacedNotificationHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

func (h *OrderPlacedNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	// The request may finish before delivery does.
	ctx = context.WithoutCancel(ctx)

	existing, err := h.notifications.FindByOrderID(ctx, placed.OrderID)
	if err == nil && existing != nil {
		h.logger.Debug("notification already recorded", zap.String("order_id", placed.OrderID.String()))
		return nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("lookup notification: %w", err)
	}

	subject := fmt.Sprintf("Your order of %s", placed.ArticleName)
	msg, err := h.render(placed, subject, false)
	if err != nil {
		return err
	}
	msg.To = []string{placed.CustomerEmail}

	sendErr := h.send(ctx, msg)
	notification := trade.NewNotification(placed.OrderID, placed.CustomerEmail, subject)
	notification.RecordDelivery(sendErr)
	h.observe(ctx, sendErr)

	logFields := []zap.Field{
		zap.String("order_id", placed.OrderID.String()),
	}
	if sendErr != nil {
		h.logger.Warn("order confirmation not delivered", append(logFields, zap.Error(sendErr))...)
	} else {
		h.logger.Info("order confirmation delivered", logFields...)
	}

	var errs []error
	if sendErr != nil {
		errs = append(errs, fmt.Errorf("send confirmation: %w", sendErr))
	}
	if err := h.notifications.Save(ctx, notification); err != nil {
		errs = append(errs, fmt.Errorf("save notification: %w", err))
	}
	if err := h.notifyAdmin(ctx, placed); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (h *OrderPlacedNotificationHandler) notifyAdmin(ctx context.Context, placed *trade.OrderPlacedEvent) error {
	if h.settings.AdminAddress == "" {
		return nil
	}
	subject := fmt.Sprintf("New order: %d x %s", placed.Number, placed.ArticleName)
	msg, err := h.render(placed, subject, true)
	if err != nil {
		return err
	}
	msg.To = []string{h.settings.AdminAddress}

	err = h.send(ctx, msg)
	h.observe(ctx, err)
	if err != nil {
		return fmt.Errorf("send admin copy: %w", err)
	}
	return nil
}

func (h *OrderPlacedNotificationHandler) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.settings.Timeout)
	defer cancel()
	return h.mailer.Send(ctx, msg)
}

func (h *OrderPlacedNotificationHandler) observe(ctx context.Context, err error) {
	if h.metrics == nil {
		return
	}
	if err != nil {
		h.metrics.NotificationFailed(ctx)
	} else {
		h.metrics.NotificationSent(ctx)
	}
}

type orderEmail struct {
	Greeting      string
	Intro         string
	SiteTitle     string
	OrderID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ArticleName   string
	ArticleURL    string
	UnitPrice     string
	Number        int
	Size          string
	Color         string
	Total         string
	PlacedAt      string
}

func (h *OrderPlacedNotificationHandler) render(placed *trade.OrderPlacedEvent, subject string, forAdmin bool) (Message, error) {
	data := orderEmail{
		Greeting:      fmt.Sprintf("Thank you, %s!", placed.CustomerName),
		Intro:         "We received your order and will contact you shortly to arrange delivery.",
		SiteTitle:     h.settings.SiteTitle,
		OrderID:       placed.OrderID.String(),
		CustomerName:  placed.CustomerName,
		CustomerEmail: placed.CustomerEmail,
		CustomerPhone: placed.CustomerPhone,
		ArticleName:   placed.ArticleName,
		UnitPrice:     placed.UnitPrice.StringFixed(2),
		Number:        placed.Number,
		Size:          placed.Size,
		Color:         placed.Color,
		Total:         placed.Total.StringFixed(2),
		PlacedAt:      placed.OccurredAt().Format("January 02, 2006 at 03:04 PM"),
	}
	if forAdmin {
		data.Greeting = "New order received"
		data.Intro = fmt.Sprintf("%s placed an order.", placed.CustomerName)
	}
	if base := strings.TrimRight(h.settings.BaseURL, "/"); base != "" {
		data.ArticleURL = fmt.Sprintf("%s/product/%s", base, placed.ArticleID)
	}

	var htmlBody, textBody bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBody, "order_placed.html.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render html email: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&textBody, "order_placed.txt.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render text email: %w", err)
	}
	return Message{Subject: subject, HTMLBody: htmlBody.String(), TextBody: textBody.String()}, nil
}

var _ shared.EventHandler = (*OrderPlacedNotificationHandler)(nil)
