package services

import (
	"context"
	"fmt"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/storage"
)

const timeLayout = "2006-01-02 15:04"

// notifier sends transactional email. Delivery failures are logged and
// never fail the operation that triggered them.
type notifier struct {
	mailer Mailer
	log    logger.ILogger
}

func (n notifier) send(ctx context.Context, to, subject, body string) {
	if n.mailer == nil || to == "" {
		return
	}
	if err := n.mailer.Send(ctx, to, subject, body); err != nil {
		n.log.Error("failed to send email",
			logger.String("to", to),
			logger.String("subject", subject),
			logger.Error(err),
		)
	}
}

func (n notifier) bookingRequested(ctx context.Context, b *storage.BookingDetails) {
	subject := fmt.Sprintf("New booking request - %s", b.Service.Name)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have a new booking request.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Customer:</strong> %s</li>
			<li><strong>Scheduled:</strong> %s</li>
			<li><strong>Address:</strong> %s</li>
			<li><strong>Estimated price:</strong> %.2f</li>
		</ul>
		<p>Please accept or reject the request from your dashboard.</p>
	`, b.Provider.User.FullName, b.Service.Name, b.Customer.FullName,
		b.ScheduledAt.Format(timeLayout), b.Address, b.TotalPrice)
	n.send(ctx, contactEmail(b, false), subject, body)
}

func (n notifier) bookingStatusChanged(ctx context.Context, b *storage.BookingDetails, actor Actor) {
	subject := fmt.Sprintf("Booking #%d is now %s", b.ID, b.Status)
	body := fmt.Sprintf(`
		<p>Booking #%d for <strong>%s</strong> on %s is now <strong>%s</strong>.</p>
		<p>%s</p>
	`, b.ID, b.Service.Name, b.ScheduledAt.Format(timeLayout), b.Status, b.StatusNote)

	// The actor already knows. Tell the other side, or both for admin and
	// system changes.
	switch actor.Role {
	case models.RoleCustomer:
		n.send(ctx, contactEmail(b, false), subject, body)
	case models.RoleProvider:
		n.send(ctx, contactEmail(b, true), subject, body)
	default:
		n.send(ctx, contactEmail(b, true), subject, body)
		n.send(ctx, contactEmail(b, false), subject, body)
	}
}

func (n notifier) bookingReminder(ctx context.Context, b *storage.BookingDetails) {
	subject := fmt.Sprintf("Reminder: upcoming booking - %s", b.Service.Name)
	body := fmt.Sprintf(`
		<p>This is a reminder for your booking scheduled in one hour.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Customer:</strong> %s</li>
			<li><strong>Scheduled:</strong> %s</li>
			<li><strong>Address:</strong> %s</li>
		</ul>
	`, b.Service.Name, b.Provider.BusinessName, b.Customer.FullName,
		b.ScheduledAt.Format(timeLayout), b.Address)
	n.send(ctx, contactEmail(b, true), subject, body)
	n.send(ctx, contactEmail(b, false), subject, body)
}

func (n notifier) reviewReceived(ctx context.Context, b *storage.BookingDetails, review *models.Review) {
	subject := fmt.Sprintf("You received a %d-star review", review.Rating)
	body := fmt.Sprintf(`
		<p>%s reviewed booking #%d (%s).</p>
		<p><strong>Rating:</strong> %d/5</p>
		<p>%s</p>
	`, b.Customer.FullName, b.ID, b.Service.Name, review.Rating, review.Comment)
	n.send(ctx, contactEmail(b, false), subject, body)
}

func (n notifier) providerVerified(ctx context.Context, user *models.User, verified bool) {
	subject := "Your provider profile has been verified"
	body := "<p>Congratulations, your profile now shows the verified badge.</p>"
	if !verified {
		subject = "Your provider verification was revoked"
		body = "<p>Your profile no longer shows the verified badge. Contact support for details.</p>"
	}
	n.send(ctx, user.Email, subject, body)
}

func contactEmail(b *storage.BookingDetails, customer bool) string {
	if b.Contact == nil {
		return ""
	}
	if customer {
		return b.Contact.CustomerEmail
	}
	return b.Contact.ProviderEmail
}
