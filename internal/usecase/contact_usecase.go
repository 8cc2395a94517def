package usecase

import (
	"context"
	"strings"

	"awn-booking/internal/converter"
	"awn-booking/internal/delivery/dto"
	"awn-booking/internal/delivery/http/middleware"
	"awn-booking/internal/domain/entity"
	"awn-booking/internal/domain/repository"
	"awn-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultContactLimit = 100

type ContactUsecase interface {
	SubmitContact(ctx context.Context, req *dto.CreateContactRequest) (*dto.ContactResponse, error)
	GetContacts(ctx context.Context, query dto.ContactQuery) (*dto.ContactListResponse, error)
}

type contactUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	contactRepo  repository.ContactRepository
	auditService service.AuditService
}

func NewContactUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	contactRepo repository.ContactRepository,
	auditService service.AuditService,
) ContactUsecase {
	return &contactUsecase{
		tx:           tx,
		log:          log,
		contactRepo:  contactRepo,
		auditService: auditService,
	}
}

// SubmitContact stores a contact form message. Callers may be anonymous.
func (u *contactUsecase) SubmitContact(ctx context.Context, req *dto.CreateContactRequest) (*dto.ContactResponse, error) {
	contact := &entity.ContactRequest{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      strings.TrimSpace(req.Role),
		City:      strings.TrimSpace(req.City),
		Topic:     strings.TrimSpace(req.Topic),
		Message:   strings.TrimSpace(req.Message),
		Locale:    req.Locale,
	}
	if contact.Locale == "" {
		contact.Locale = entity.DefaultContactLocale
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"first_name", contact.FirstName},
		{"last_name", contact.LastName},
		{"email", contact.Email},
		{"message", contact.Message},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}
	if !emailPattern.MatchString(contact.Email) {
		return nil, ErrInvalidEmail
	}

	var actor *uuid.UUID
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actor = &userID
	}

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.contactRepo.Create(tx, contact); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionContactCreate, "contact_request", contact.ID.String(),
			map[string]interface{}{"email": contact.Email, "topic": contact.Topic, "locale": contact.Locale})
	})
	if err != nil {
		return nil, upstream(u.log, "save contact request", err)
	}

	u.log.WithFields(logrus.Fields{"contact_id": contact.ID, "topic": contact.Topic}).Info("Contact request received")
	response := converter.ContactToResponse(contact)
	return &response, nil
}

func (u *contactUsecase) GetContacts(ctx context.Context, query dto.ContactQuery) (*dto.ContactListResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultContactLimit
	}

	var contacts []entity.ContactRequest
	err := u.tx.Read(ctx, func(db *gorm.DB) error {
		var err error
		contacts, err = u.contactRepo.FindRecent(db, limit)
		return err
	})
	if err != nil {
		return nil, upstream(u.log, "fetch contact requests", err)
	}

	return &dto.ContactListResponse{
		Contacts: converter.ContactsToResponses(contacts),
		Total:    len(contacts),
	}, nil
}
