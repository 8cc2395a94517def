package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/metrics"
	"awn-booking/internal/infrastructure/notification"
	"awn-booking/internal/service"
	"awn-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound         = apperror.New(apperror.KindNotFound, "booking not found")
	ErrSlotConflict            = apperror.New(apperror.KindConflict, "this time slot is already booked")
	ErrInvalidBookingState     = apperror.New(apperror.KindInvalidState, "booking cannot change from its current status")
	ErrBookingAlreadyCancelled = apperror.New(apperror.KindAlreadyCancelled, "booking is already cancelled")
	ErrBookingNotOwned         = apperror.New(apperror.KindForbidden, "booking does not belong to you")
	ErrConfirmByPatient        = apperror.New(apperror.KindForbidden, "only the therapist can confirm a booking")
	ErrTherapistNotFound       = apperror.New(apperror.KindNotFound, "therapist not found")
	ErrTherapistMismatch       = apperror.New(apperror.KindValidation, "therapist does not match the booking")
	ErrPastBookingDate         = apperror.New(apperror.KindValidation, "booking date cannot be in the past")
	ErrSlotNotInCatalog        = apperror.New(apperror.KindValidation, "booking time is not an offered slot")
	ErrSessionTypeNotOffered   = apperror.New(apperror.KindValidation, "therapist does not offer this session type")
)

const (
	opBookingCreate     = "booking_create"
	opBookingConfirm    = "booking_confirm"
	opBookingCancel     = "booking_cancel"
	opBookingComplete   = "booking_complete"
	opBookingReschedule = "booking_reschedule"
)

var transitionVerbs = map[entity.BookingStatus]string{
	entity.BookingStatusConfirmed: "confirm",
	entity.BookingStatusCancelled: "cancel",
	entity.BookingStatusCompleted: "complete",
}

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, req *dto.ConfirmBookingRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	RescheduleBooking(ctx context.Context, bookingID uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.RescheduleResponse, error)
	GetAvailability(ctx context.Context, therapistID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	GetPatientBookings(ctx context.Context, email string) (*dto.BookingListResponse, error)
	GetMyBookings(ctx context.Context, status string) (*dto.BookingListResponse, error)
	GetTherapistBookings(ctx context.Context, therapistID uuid.UUID, query dto.TherapistBookingQuery) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	tx            repository.Transactor
	log           *logrus.Logger
	bookingRepo   repository.BookingRepository
	therapistRepo repository.TherapistProfileRepository
	conflicts     service.ConflictChecker
	availability  service.AvailabilityCalculator
	auditService  service.AuditService
	mailer        notification.EmailSender
	metrics       *metrics.Metrics
	catalog       *entity.SlotCatalog
	now           func() time.Time
}

func NewBookingUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	therapistRepo repository.TherapistProfileRepository,
	conflicts service.ConflictChecker,
	availability service.AvailabilityCalculator,
	auditService service.AuditService,
	mailer notification.EmailSender,
	metrics *metrics.Metrics,
	catalog *entity.SlotCatalog,
) BookingUsecase {
	return &bookingUsecase{
		tx:            tx,
		log:           log,
		bookingRepo:   bookingRepo,
		therapistRepo: therapistRepo,
		conflicts:     conflicts,
		availability:  availability,
		auditService:  auditService,
		mailer:        mailer,
		metrics:       metrics,
		catalog:       catalog,
		now:           time.Now,
	}
}

// CreateBooking reserves a slot for a patient. The active slot index rejects a
// concurrent insert that passed the same conflict check.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	booking, err := u.newBooking(ctx, req)
	if err != nil {
		u.metrics.ObserveOperation(opBookingCreate, err)
		return nil, err
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		therapist, err := u.therapistRepo.FindByUserID(tx, booking.TherapistID)
		if err != nil {
			return err
		}
		if therapist == nil {
			return ErrTherapistNotFound
		}
		if !therapist.OffersMode(booking.SessionType) {
			return ErrSessionTypeNotOffered
		}

		taken, err := u.conflicts.HasConflictTx(tx, booking.TherapistID, booking.BookingDate, booking.BookingTime, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		if err := u.bookingRepo.Create(tx, booking); err != nil {
			if errors.Is(err, repository.ErrActiveSlotTaken) {
				return ErrSlotConflict
			}
			return err
		}
		booking.Therapist = therapist

		return u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionBookingCreate, "booking", booking.ID.String(), bookingSnapshot(booking))
	})
	u.metrics.ObserveOperation(opBookingCreate, err)
	if err != nil {
		return nil, upstream(u.log, "create booking", err)
	}

	u.availability.Invalidate(ctx, booking.TherapistID, booking.BookingDate)
	u.bookingLog(booking).Info("Booking created")
	u.notify(ctx, notification.BookingReceivedEmail(booking.PatientEmail, booking.PatientName, booking.DateString(), booking.BookingTime))

	return converter.BookingToResponse(booking), nil
}

// ConfirmBooking moves a pending booking to confirmed.
func (u *bookingUsecase) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, req *dto.ConfirmBookingRequest) (*dto.BookingResponse, error) {
	var actor *uuid.UUID
	if req != nil && req.TherapistID != nil {
		actor = req.TherapistID
	}
	if therapistID, ok := middleware.ActorWithRole(ctx, entity.RoleIDTherapist); ok {
		actor = &therapistID
	}

	authorize := func(ctx context.Context, b *entity.Booking) error {
		if _, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient); ok {
			return ErrConfirmByPatient
		}
		if actor != nil && *actor != b.TherapistID {
			return ErrBookingNotOwned
		}
		return u.checkOwnership(ctx, b)
	}
	change := func(now time.Time) entity.BookingChange {
		return entity.BookingChange{
			Status:      entity.BookingStatusConfirmed,
			ConfirmedAt: &now,
			ConfirmedBy: actor,
		}
	}

	booking, err := u.transition(ctx, bookingID, entity.BookingStatusConfirmed, entity.AuditActionBookingConfirm, authorize, change)
	u.metrics.ObserveOperation(opBookingConfirm, err)
	if err != nil {
		return nil, err
	}

	u.notify(ctx, notification.BookingStatusEmail(booking.PatientEmail, booking.PatientName, booking.DateString(), booking.BookingTime, string(booking.Status)))
	return converter.BookingToResponse(booking), nil
}

// CancelBooking cancels a pending or confirmed booking and frees its slot.
func (u *bookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	var reason, cancelledBy string
	if req != nil {
		reason = strings.TrimSpace(req.CancellationReason)
		cancelledBy = req.CancelledBy
	}
	cancelledBy = cancellingActor(ctx, cancelledBy)

	change := func(now time.Time) entity.BookingChange {
		return entity.BookingChange{
			Status:             entity.BookingStatusCancelled,
			CancelledAt:        &now,
			CancelledBy:        cancelledBy,
			CancellationReason: reason,
		}
	}

	booking, err := u.transition(ctx, bookingID, entity.BookingStatusCancelled, entity.AuditActionBookingCancel, u.checkOwnership, change)
	u.metrics.ObserveOperation(opBookingCancel, err)
	if err != nil {
		return nil, err
	}

	u.notify(ctx, notification.BookingStatusEmail(booking.PatientEmail, booking.PatientName, booking.DateString(), booking.BookingTime, string(booking.Status)))
	return converter.BookingToResponse(booking), nil
}

// CompleteBooking marks a confirmed session as held.
func (u *bookingUsecase) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	change := func(now time.Time) entity.BookingChange {
		return entity.BookingChange{
			Status:      entity.BookingStatusCompleted,
			CompletedAt: &now,
		}
	}

	booking, err := u.transition(ctx, bookingID, entity.BookingStatusCompleted, entity.AuditActionBookingComplete, u.checkOwnership, change)
	u.metrics.ObserveOperation(opBookingComplete, err)
	if err != nil {
		return nil, err
	}
	return converter.BookingToResponse(booking), nil
}

// transition applies a status change as a conditional update. When the guarded
// update touches no row the booking is re-read to report why.
func (u *bookingUsecase) transition(
	ctx context.Context,
	bookingID uuid.UUID,
	target entity.BookingStatus,
	action string,
	authorize func(context.Context, *entity.Booking) error,
	change func(now time.Time) entity.BookingChange,
) (*entity.Booking, error) {
	var booking *entity.Booking
	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		current, err := u.bookingRepo.FindByID(tx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}
		if err := authorize(ctx, current); err != nil {
			return err
		}
		if err := checkTransition(current.Status, target); err != nil {
			return err
		}

		previous := current.Status
		c := change(u.now())
		rows, err := u.bookingRepo.Transition(tx, bookingID, entity.BookingStatusesInto(target), c)
		if err != nil {
			return err
		}
		if rows == 0 {
			latest, err := u.bookingRepo.FindByID(tx, bookingID)
			if err != nil {
				return err
			}
			if latest == nil {
				return ErrBookingNotFound
			}
			if err := checkTransition(latest.Status, target); err != nil {
				return err
			}
			return ErrInvalidBookingState
		}

		c.Apply(current)
		booking = current

		return u.auditService.LogUpdate(ctx, tx, actorID(ctx), action, "booking", bookingID.String(),
			map[string]interface{}{"status": previous},
			map[string]interface{}{"status": current.Status},
		)
	})
	if err != nil {
		return nil, upstream(u.log, transitionVerbs[target]+" booking", err)
	}

	if !target.IsActive() {
		u.availability.Invalidate(ctx, booking.TherapistID, booking.BookingDate)
	}
	u.bookingLog(booking).Infof("Booking %s", booking.Status)

	return booking, nil
}

// RescheduleBooking cancels the original booking and creates its replacement in
// one transaction. Any conflict leaves the original untouched.
func (u *bookingUsecase) RescheduleBooking(ctx context.Context, bookingID uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.RescheduleResponse, error) {
	resp, err := u.reschedule(ctx, bookingID, req)
	u.metrics.ObserveOperation(opBookingReschedule, err)
	return resp, err
}

func (u *bookingUsecase) reschedule(ctx context.Context, bookingID uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.RescheduleResponse, error) {
	var missing []string
	if req.NewBookingDate == "" {
		missing = append(missing, "new_booking_date")
	}
	if req.NewBookingTime == "" {
		missing = append(missing, "new_booking_time")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	newDate, err := u.parseBookingDate(req.NewBookingDate)
	if err != nil {
		return nil, err
	}
	if err := u.checkSlot(req.NewBookingTime); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.RescheduleReason)
	cancellation := "Rescheduled"
	if reason != "" {
		cancellation += ": " + reason
	}

	var original, replacement *entity.Booking
	var from dto.SlotResponse
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		current, err := u.bookingRepo.FindByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}
		if req.TherapistID != nil && *req.TherapistID != current.TherapistID {
			return ErrTherapistMismatch
		}
		if err := u.checkOwnership(ctx, current); err != nil {
			return err
		}
		if !current.Status.IsActive() {
			return checkTransition(current.Status, entity.BookingStatusCancelled)
		}
		from = dto.SlotResponse{Date: current.DateString(), Time: current.BookingTime}

		taken, err := u.conflicts.HasConflictTx(tx, current.TherapistID, newDate, req.NewBookingTime, &current.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotConflict
		}

		now := u.now()
		previous := current.Status
		cancel := entity.BookingChange{
			Status:             entity.BookingStatusCancelled,
			CancelledAt:        &now,
			CancelledBy:        cancellingActor(ctx, ""),
			CancellationReason: cancellation,
		}
		rows, err := u.bookingRepo.Transition(tx, current.ID, entity.ActiveBookingStatuses(), cancel)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidBookingState
		}
		cancel.Apply(current)

		next := &entity.Booking{
			ID:                uuid.New(),
			TherapistID:       current.TherapistID,
			PatientID:         current.PatientID,
			PatientName:       current.PatientName,
			PatientEmail:      current.PatientEmail,
			PatientPhone:      current.PatientPhone,
			PatientNationalID: current.PatientNationalID,
			BookingDate:       newDate,
			BookingTime:       req.NewBookingTime,
			SessionType:       current.SessionType,
			SessionDuration:   current.SessionDuration,
			Notes:             current.Notes,
			Status:            entity.BookingStatusPending,
			RescheduledFrom:   &current.ID,
		}
		if err := u.bookingRepo.Create(tx, next); err != nil {
			if errors.Is(err, repository.ErrActiveSlotTaken) {
				return ErrSlotConflict
			}
			return err
		}
		if err := u.bookingRepo.SetRescheduledTo(tx, current.ID, next.ID); err != nil {
			return err
		}
		current.RescheduledTo = &next.ID

		original, replacement = current, next

		return u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionBookingReschedule, "booking", current.ID.String(),
			map[string]interface{}{"status": previous, "booking_date": from.Date, "booking_time": from.Time},
			map[string]interface{}{"status": current.Status, "rescheduled_to": next.ID, "booking_date": next.DateString(), "booking_time": next.BookingTime},
		)
	})
	if err != nil {
		return nil, upstream(u.log, "reschedule booking", err)
	}

	u.availability.Invalidate(ctx, original.TherapistID, original.BookingDate, replacement.BookingDate)
	u.bookingLog(replacement).WithField("rescheduled_from", original.ID).Info("Booking rescheduled")
	u.notify(ctx, notification.BookingRescheduledEmail(original.PatientEmail, original.PatientName,
		from.Date, from.Time, replacement.DateString(), replacement.BookingTime))

	return &dto.RescheduleResponse{
		OriginalBooking: *converter.BookingToResponse(original),
		NewBooking:      *converter.BookingToResponse(replacement),
		Details: dto.RescheduleDetails{
			From:   from,
			To:     dto.SlotResponse{Date: replacement.DateString(), Time: replacement.BookingTime},
			Reason: reason,
		},
	}, nil
}

// GetAvailability splits the slot catalog of one therapist day into free and taken times.
func (u *bookingUsecase) GetAvailability(ctx context.Context, therapistID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	var missing []string
	if therapistID == uuid.Nil {
		missing = append(missing, "therapist_id")
	}
	if date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	availability, err := u.availability.AvailableSlots(ctx, therapistID, day)
	if err != nil {
		return nil, upstream(u.log, "fetch availability", err)
	}

	return &dto.AvailabilityResponse{
		AvailableTimes: availability.AvailableTimes,
		BookedTimes:    availability.BookedTimes,
		TherapistID:    therapistID,
		Date:           date,
	}, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	var booking *entity.Booking
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		booking, err = u.bookingRepo.FindByID(db, bookingID)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch booking", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) GetPatientBookings(ctx context.Context, email string) (*dto.BookingListResponse, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	var bookings []entity.Booking
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		bookings, err = u.bookingRepo.FindByPatientEmail(db, email)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch patient bookings", err)
	}
	return bookingList(bookings), nil
}

// GetMyBookings returns the bookings of the logged-in patient.
func (u *bookingUsecase) GetMyBookings(ctx context.Context, status string) (*dto.BookingListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	filter, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	var bookings []entity.Booking
	err = u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		bookings, err = u.bookingRepo.FindByPatientID(db, patientID, filter)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch bookings", err)
	}
	return bookingList(bookings), nil
}

func (u *bookingUsecase) GetTherapistBookings(ctx context.Context, therapistID uuid.UUID, query dto.TherapistBookingQuery) (*dto.BookingListResponse, error) {
	status, err := parseStatus(query.Status)
	if err != nil {
		return nil, err
	}
	filter := entity.BookingFilter{Status: status}
	if query.Date != "" {
		day, err := time.Parse(entity.DateLayout, query.Date)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.Date = &day
	}

	var bookings []entity.Booking
	err = u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		bookings, err = u.bookingRepo.FindByTherapist(db, therapistID, filter)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch therapist bookings", err)
	}
	return bookingList(bookings), nil
}

func (u *bookingUsecase) newBooking(ctx context.Context, req *dto.CreateBookingRequest) (*entity.Booking, error) {
	var missing []string
	if req.TherapistID == uuid.Nil {
		missing = append(missing, "therapist_id")
	}
	for _, field := range []struct{ name, value string }{
		{"patient_name", req.PatientName},
		{"patient_email", req.PatientEmail},
		{"patient_phone", req.PatientPhone},
		{"booking_date", req.BookingDate},
		{"booking_time", req.BookingTime},
		{"session_type", req.SessionType},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	email := strings.TrimSpace(req.PatientEmail)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	sessionType := entity.SessionType(req.SessionType)
	if !sessionType.IsValid() {
		return nil, ErrInvalidSessionType
	}
	date, err := u.parseBookingDate(req.BookingDate)
	if err != nil {
		return nil, err
	}
	if err := u.checkSlot(req.BookingTime); err != nil {
		return nil, err
	}

	duration := req.SessionDuration
	if duration == 0 {
		duration = entity.DefaultSessionDuration
	}

	booking := &entity.Booking{
		ID:                uuid.New(),
		TherapistID:       req.TherapistID,
		PatientName:       strings.TrimSpace(req.PatientName),
		PatientEmail:      email,
		PatientPhone:      strings.TrimSpace(req.PatientPhone),
		PatientNationalID: req.PatientNationalID,
		BookingDate:       date,
		BookingTime:       req.BookingTime,
		SessionType:       sessionType,
		SessionDuration:   duration,
		Notes:             req.Notes,
		Status:            entity.BookingStatusPending,
	}
	if patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient); ok {
		booking.PatientID = &patientID
	}
	return booking, nil
}

// parseBookingDate accepts today or a later day.
func (u *bookingUsecase) parseBookingDate(value string) (time.Time, error) {
	date, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	now := u.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, ErrPastBookingDate
	}
	return date, nil
}

func (u *bookingUsecase) checkSlot(slot string) error {
	if !entity.IsSlotTime(slot) {
		return ErrInvalidTimeFormat
	}
	if !u.catalog.Contains(slot) {
		return ErrSlotNotInCatalog
	}
	return nil
}

// checkOwnership lets patients and therapists act only on their own bookings.
// Anonymous callers and admins pass.
func (u *bookingUsecase) checkOwnership(ctx context.Context, b *entity.Booking) error {
	if therapistID, ok := middleware.ActorWithRole(ctx, entity.RoleIDTherapist); ok && therapistID != b.TherapistID {
		return ErrBookingNotOwned
	}
	if patientID, ok := middleware.ActorWithRole(ctx, entity.RoleIDPatient); ok && b.PatientID != nil && *b.PatientID != patientID {
		return ErrBookingNotOwned
	}
	return nil
}

func (u *bookingUsecase) notify(ctx context.Context, msg notification.EmailMessage) {
	if u.mailer == nil {
		return
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		u.log.Warnf("Failed to send email to %s: %+v", msg.To, err)
	}
}

func (u *bookingUsecase) bookingLog(b *entity.Booking) *logrus.Entry {
	return u.log.WithFields(logrus.Fields{
		"booking_id":   b.ID,
		"therapist_id": b.TherapistID,
		"date":         b.DateString(),
		"time":         b.BookingTime,
	})
}

// checkTransition classifies an illegal status change.
func checkTransition(from, to entity.BookingStatus) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	if from == entity.BookingStatusCancelled && to == entity.BookingStatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	return apperror.Wrap(apperror.KindInvalidState,
		fmt.Sprintf("cannot %s a %s booking", transitionVerbs[to], from), ErrInvalidBookingState)
}

// cancellingActor prefers the caller's role over the body value.
func cancellingActor(ctx context.Context, fallback string) string {
	if roleID, ok := middleware.GetRoleIDFromContext(ctx); ok {
		return entity.RoleName(roleID)
	}
	if fallback == "" {
		return "patient"
	}
	return fallback
}

func parseStatus(value string) (*entity.BookingStatus, error) {
	if value == "" {
		return nil, nil
	}
	status := entity.BookingStatus(value)
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &status, nil
}

func actorID(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}

func bookingSnapshot(b *entity.Booking) map[string]interface{} {
	return map[string]interface{}{
		"therapist_id": b.TherapistID,
		"booking_date": b.DateString(),
		"booking_time": b.BookingTime,
		"session_type": b.SessionType,
		"status":       b.Status,
	}
}

func bookingList(bookings []entity.Booking) *dto.BookingListResponse {
	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}
}
