package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/infrastructure/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// snapshotter is implemented by in-memory stores that take part in rollback.
type snapshotter interface {
	snapshot() func()
}

// fakeTransactor passes a nil handle to fn and restores the registered stores when fn fails.
type fakeTransactor struct {
	stores []snapshotter
}

func (f *fakeTransactor) Read(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	restores := make([]func(), len(f.stores))
	for i, s := range f.stores {
		restores[i] = s.snapshot()
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// memBookingRepository enforces the active slot index like the database does.
type memBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	order    []uuid.UUID
	// createErr, when set, is returned by Create once.
	createErr error
}

func newMemBookingRepository() *memBookingRepository {
	return &memBookingRepository{bookings: map[uuid.UUID]entity.Booking{}}
}

func (r *memBookingRepository) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]entity.Booking, len(r.bookings))
	for k, v := range r.bookings {
		saved[k] = v
	}
	order := append([]uuid.UUID(nil), r.order...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.bookings = saved
		r.order = order
	}
}

func (r *memBookingRepository) put(b entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.bookings[b.ID] = b
}

func (r *memBookingRepository) get(id uuid.UUID) (entity.Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	return b, ok
}

func (r *memBookingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

func (r *memBookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, b := range r.bookings {
		if b.Status.IsActive() && b.TherapistID == booking.TherapistID &&
			b.BookingDate.Equal(booking.BookingDate) && b.BookingTime == booking.BookingTime {
			return repository.ErrActiveSlotTaken
		}
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt, booking.UpdatedAt = now, now
	stored := *booking
	stored.Therapist = nil
	r.bookings[booking.ID] = stored
	r.order = append(r.order, booking.ID)
	return nil
}

func (r *memBookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	b, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(db, id)
}

func (r *memBookingRepository) filter(keep func(entity.Booking) bool) []entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *memBookingRepository) FindByPatientEmail(db *gorm.DB, email string) ([]entity.Booking, error) {
	return r.filter(func(b entity.Booking) bool { return b.PatientEmail == email }), nil
}

func (r *memBookingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error) {
	return r.filter(func(b entity.Booking) bool {
		return b.PatientID != nil && *b.PatientID == patientID && (status == nil || b.Status == *status)
	}), nil
}

func (r *memBookingRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID, f entity.BookingFilter) ([]entity.Booking, error) {
	out := r.filter(func(b entity.Booking) bool {
		return b.TherapistID == therapistID &&
			(f.Status == nil || b.Status == *f.Status) &&
			(f.Date == nil || b.BookingDate.Equal(*f.Date))
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].BookingTime < out[j].BookingTime
	})
	return out, nil
}

func (r *memBookingRepository) ExistsActive(db *gorm.DB, therapistID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	found := r.filter(func(b entity.Booking) bool {
		return b.Status.IsActive() && b.TherapistID == therapistID && b.BookingDate.Equal(date) &&
			b.BookingTime == slot && (excludeID == nil || b.ID != *excludeID)
	})
	return len(found) > 0, nil
}

func (r *memBookingRepository) FindActiveTimes(db *gorm.DB, therapistID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	for _, b := range r.filter(func(b entity.Booking) bool {
		return b.Status.IsActive() && b.TherapistID == therapistID && b.BookingDate.Equal(date)
	}) {
		times = append(times, b.BookingTime)
	}
	return times, nil
}

func (r *memBookingRepository) Transition(db *gorm.DB, id uuid.UUID, from []entity.BookingStatus, change entity.BookingChange) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return 0, nil
	}
	for _, s := range from {
		if b.Status == s {
			change.Apply(&b)
			r.bookings[id] = b
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memBookingRepository) SetRescheduledTo(db *gorm.DB, id, newID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("booking missing")
	}
	b.RescheduledTo = &newID
	r.bookings[id] = b
	return nil
}

type memTherapistRepository struct {
	profiles map[uuid.UUID]entity.TherapistProfile
}

func newMemTherapistRepository(profiles ...entity.TherapistProfile) *memTherapistRepository {
	r := &memTherapistRepository{profiles: map[uuid.UUID]entity.TherapistProfile{}}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *memTherapistRepository) Create(db *gorm.DB, profile *entity.TherapistProfile) error {
	for _, p := range r.profiles {
		if profile.LicenseNumber != "" && p.LicenseNumber == profile.LicenseNumber {
			return repository.ErrDuplicate
		}
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *memTherapistRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.TherapistProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memTherapistRepository) FindAll(db *gorm.DB, filter entity.TherapistFilter) ([]entity.TherapistProfile, error) {
	var out []entity.TherapistProfile
	for _, p := range r.profiles {
		if filter.City != "" && p.City != filter.City {
			continue
		}
		if filter.Mode != "" && !p.OffersMode(filter.Mode) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type memPatientProfileRepository struct {
	profiles map[uuid.UUID]entity.PatientProfile
}

func (r *memPatientProfileRepository) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	if r.profiles == nil {
		r.profiles = map[uuid.UUID]entity.PatientProfile{}
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *memPatientProfileRepository) snapshot() func() {
	saved := make(map[uuid.UUID]entity.PatientProfile, len(r.profiles))
	for k, v := range r.profiles {
		saved[k] = v
	}
	return func() { r.profiles = saved }
}

func (r *memPatientProfileRepository) Update(db *gorm.DB, profile *entity.PatientProfile) error {
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *memPatientProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type memUserRepository struct {
	users map[uuid.UUID]entity.User
}

func newMemUserRepository(users ...entity.User) *memUserRepository {
	r := &memUserRepository{users: map[uuid.UUID]entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepository) snapshot() func() {
	saved := make(map[uuid.UUID]entity.User, len(r.users))
	for k, v := range r.users {
		saved[k] = v
	}
	return func() { r.users = saved }
}

func (r *memUserRepository) Create(db *gorm.DB, user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepository) RecordFailedLogin(db *gorm.DB, id uuid.UUID, maxAttempts int) (bool, error) {
	u := r.users[id]
	u.FailedLoginAttempts++
	u.Locked = u.FailedLoginAttempts >= maxAttempts
	r.users[id] = u
	return u.Locked, nil
}

func (r *memUserRepository) RecordSuccessfulLogin(db *gorm.DB, id uuid.UUID) error {
	u := r.users[id]
	now := time.Now()
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now
	r.users[id] = u
	return nil
}

func (r *memUserRepository) UpdateAccount(db *gorm.DB, user *entity.User) error {
	for _, u := range r.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	stored := r.users[user.ID]
	stored.FullName, stored.Email, stored.EmailVerified = user.FullName, user.Email, user.EmailVerified
	r.users[user.ID] = stored
	return nil
}

func (r *memUserRepository) MarkEmailVerified(db *gorm.DB, id uuid.UUID) error {
	u := r.users[id]
	u.EmailVerified = true
	r.users[id] = u
	return nil
}

type memContactRepository struct {
	contacts []entity.ContactRequest
}

func (r *memContactRepository) Create(db *gorm.DB, contact *entity.ContactRequest) error {
	contact.CreatedAt = time.Now()
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *memContactRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ContactRequest, error) {
	var out []entity.ContactRequest
	for i := len(r.contacts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.contacts[i])
	}
	return out, nil
}

type memPlanRepository struct {
	plans map[uuid.UUID]entity.TreatmentPlan
}

func newMemPlanRepository() *memPlanRepository {
	return &memPlanRepository{plans: map[uuid.UUID]entity.TreatmentPlan{}}
}

func (r *memPlanRepository) Create(db *gorm.DB, plan *entity.TreatmentPlan) error {
	r.plans[plan.ID] = *plan
	return nil
}

func (r *memPlanRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TreatmentPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	p.Steps = append(entity.StringList(nil), p.Steps...)
	return &p, nil
}

func (r *memPlanRepository) find(keep func(entity.TreatmentPlan) bool) []entity.TreatmentPlan {
	var out []entity.TreatmentPlan
	for _, p := range r.plans {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memPlanRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error) {
	return r.find(func(p entity.TreatmentPlan) bool {
		return p.PatientID == patientID && (status == nil || p.Status == *status)
	}), nil
}

func (r *memPlanRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID, status *entity.PlanStatus) ([]entity.TreatmentPlan, error) {
	return r.find(func(p entity.TreatmentPlan) bool {
		return p.TherapistID == therapistID && (status == nil || p.Status == *status)
	}), nil
}

func (r *memPlanRepository) Update(db *gorm.DB, plan *entity.TreatmentPlan, expected entity.PlanStatus) (int64, error) {
	stored, ok := r.plans[plan.ID]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	r.plans[plan.ID] = *plan
	return 1, nil
}

type memRatingRepository struct {
	ratings []entity.Rating
}

func (r *memRatingRepository) Create(db *gorm.DB, rating *entity.Rating) error {
	for _, existing := range r.ratings {
		if existing.BookingID == rating.BookingID {
			return repository.ErrDuplicate
		}
	}
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *memRatingRepository) FindByTherapist(db *gorm.DB, therapistID uuid.UUID) ([]entity.Rating, error) {
	var out []entity.Rating
	for _, rating := range r.ratings {
		if rating.TherapistID == therapistID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (r *memRatingRepository) Summary(db *gorm.DB, therapistID uuid.UUID) (entity.RatingSummary, error) {
	var summary entity.RatingSummary
	total := 0
	for _, rating := range r.ratings {
		if rating.TherapistID == therapistID {
			summary.Count++
			total += rating.Score
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

type memFavoriteRepository struct {
	favorites map[[2]uuid.UUID]entity.Favorite
}

func (r *memFavoriteRepository) Add(db *gorm.DB, favorite *entity.Favorite) error {
	if r.favorites == nil {
		r.favorites = map[[2]uuid.UUID]entity.Favorite{}
	}
	key := [2]uuid.UUID{favorite.PatientID, favorite.TherapistID}
	if _, ok := r.favorites[key]; !ok {
		r.favorites[key] = *favorite
	}
	return nil
}

func (r *memFavoriteRepository) Remove(db *gorm.DB, patientID, therapistID uuid.UUID) error {
	delete(r.favorites, [2]uuid.UUID{patientID, therapistID})
	return nil
}

func (r *memFavoriteRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.Favorite, error) {
	var out []entity.Favorite
	for key, f := range r.favorites {
		if key[0] == patientID {
			out = append(out, f)
		}
	}
	return out, nil
}

type memMedicalHistoryRepository struct {
	histories map[uuid.UUID]entity.MedicalHistory
}

func (r *memMedicalHistoryRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.MedicalHistory, error) {
	h, ok := r.histories[userID]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *memMedicalHistoryRepository) Upsert(db *gorm.DB, history *entity.MedicalHistory) error {
	if r.histories == nil {
		r.histories = map[uuid.UUID]entity.MedicalHistory{}
	}
	r.histories[history.UserID] = *history
	return nil
}

func (r *memMedicalHistoryRepository) Delete(db *gorm.DB, userID uuid.UUID) (int64, error) {
	if _, ok := r.histories[userID]; !ok {
		return 0, nil
	}
	delete(r.histories, userID)
	return 1, nil
}

type memAuditLogRepository struct {
	logs []entity.AuditLog
}

func (r *memAuditLogRepository) snapshot() func() {
	saved := append([]entity.AuditLog(nil), r.logs...)
	return func() { r.logs = saved }
}

func (r *memAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memAuditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var out []entity.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := r.logs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.UserID != nil && (l.UserID == nil || *l.UserID != *filter.UserID) {
			continue
		}
		if filter.Since != nil && l.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *memAuditLogRepository) actions() []string {
	out := make([]string, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}

// fakeMailer records messages and fails every send when err is set.
type fakeMailer struct {
	mu   sync.Mutex
	sent []notification.EmailMessage
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
