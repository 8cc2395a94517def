package usecase

import (
	"context"

	"awn-booking/internal/domain/entity"
	"awn-booking/internal/infrastructure/notification"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var ErrEmailAlreadyVerified = apperror.New(apperror.KindInvalidState, "email is already verified")

// emailVerifier issues a verification code and mails it to the user.
type emailVerifier struct {
	log    *logrus.Logger
	otp    *service.OTPService
	mailer notification.EmailSender
}

func (v emailVerifier) send(ctx context.Context, user *entity.User) error {
	code, err := v.otp.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	if v.mailer == nil {
		return nil
	}
	if err := v.mailer.Send(ctx, notification.VerificationCodeEmail(user.Email, user.FullName, code, service.OTPTTL)); err != nil {
		v.log.Warnf("Failed to send verification code to %s: %+v", user.Email, err)
		return apperror.Wrap(apperror.KindUpstream, "failed to send verification code", err)
	}
	return nil
}

// sendBestEffort logs instead of failing the surrounding operation.
func (v emailVerifier) sendBestEffort(ctx context.Context, user *entity.User) {
	if v.otp == nil {
		return
	}
	if err := v.send(ctx, user); err != nil && apperror.KindOf(err) != apperror.KindUpstream {
		v.log.WithField("user_id", user.ID).Warnf("Verification code not sent: %v", err)
	}
}
