package notification

import (
	"fmt"
	"time"
)

func WelcomeEmail(to, name string) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  name,
		Subject: "Welcome to Awn",
		Body:    fmt.Sprintf("Hello %s,\n\nYour Awn account is ready. You can now book sessions with our therapists.", name),
	}
}

func BookingReceivedEmail(to, name, date, slot string) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  name,
		Subject: "Your session request was received",
		Body:    fmt.Sprintf("Hello %s,\n\nWe received your session request for %s at %s. The therapist will confirm it shortly.", name, date, slot),
	}
}

func BookingStatusEmail(to, name, date, slot, status string) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  name,
		Subject: "Your session on " + date + " is " + status,
		Body:    fmt.Sprintf("Hello %s,\n\nYour session on %s at %s is now %s.", name, date, slot, status),
	}
}

func BookingRescheduledEmail(to, name, fromDate, fromSlot, toDate, toSlot string) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  name,
		Subject: "Your session was rescheduled",
		Body: fmt.Sprintf("Hello %s,\n\nYour session on %s at %s was moved to %s at %s and awaits confirmation.",
			name, fromDate, fromSlot, toDate, toSlot),
	}
}

func VerificationCodeEmail(to, name, code string, validFor time.Duration) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  name,
		Subject: "Your Awn verification code",
		Body: fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in %d minutes.",
			name, code, int(validFor.Minutes())),
	}
}
