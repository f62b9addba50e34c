package services

import (
	"context"
	"fmt"

	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/platform/sendgrid"
)

// Notifier sends the transactional emails the membership and deletion flows
// produce. Calls are synchronous: the durable mutation has already committed
// when a notifier runs, and a send failure propagates to the caller.
type Notifier interface {
	MemberRemoved(ctx context.Context, email, householdName string) error
	InvitationReceived(ctx context.Context, email, senderName, householdName string) error
	InvitationResponded(ctx context.Context, email, targetName, householdName string, accepted bool) error
	DeletionRequested(ctx context.Context, email, ownerName, householdName string) error
}

type emailNotifier struct {
	log  *logger.Logger
	mail sendgrid.Client
}

func NewEmailNotifier(log *logger.Logger, mail sendgrid.Client) Notifier {
	return &emailNotifier{
		log:  log.With("service", "EmailNotifier"),
		mail: mail,
	}
}

func (n *emailNotifier) send(ctx context.Context, email, subject, text string) error {
	if n == nil || n.mail == nil {
		return fmt.Errorf("notifier not initialized")
	}
	_, err := n.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: email}},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		n.log.Error("Failed to send notification email", "subject", subject, "error", err)
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func (n *emailNotifier) MemberRemoved(ctx context.Context, email, householdName string) error {
	return n.send(ctx, email,
		"You have been removed from a household",
		fmt.Sprintf("You are no longer a member of the household %q.", householdName),
	)
}

func (n *emailNotifier) InvitationReceived(ctx context.Context, email, senderName, householdName string) error {
	return n.send(ctx, email,
		"Household invitation",
		fmt.Sprintf("%s invited you to join the household %q. Open the app to accept or decline.", senderName, householdName),
	)
}

func (n *emailNotifier) InvitationResponded(ctx context.Context, email, targetName, householdName string, accepted bool) error {
	verb := "declined"
	if accepted {
		verb = "accepted"
	}
	return n.send(ctx, email,
		"Invitation "+verb,
		fmt.Sprintf("%s %s your invitation to the household %q.", targetName, verb, householdName),
	)
}

func (n *emailNotifier) DeletionRequested(ctx context.Context, email, ownerName, householdName string) error {
	return n.send(ctx, email,
		"Action required: household ownership",
		fmt.Sprintf("%s wants to delete their account and asked you to take over the household %q. Open the app to accept ownership or reject the request.", ownerName, householdName),
	)
}
