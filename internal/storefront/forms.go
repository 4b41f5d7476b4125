package storefront

import (
	"errors"
	"strconv"
	"strings"

	"florist/internal/discussions"
	"florist/internal/reservations"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var fieldLabels = map[string]string{
	"EventDate":     "La date de l'événement",
	"VenueType":     "Le type de lieu",
	"Address":       "L'adresse",
	"Message":       "Le message",
	"ServiceID":     "La prestation",
	"ProposedPrice": "Le prix proposé",
	"PeopleCount":   "Le nombre de personnes",
}

// EventForm holds the fields shared by reservations and quote requests.
type EventForm struct {
	EventDate   string `form:"event_date" validate:"required"`
	VenueType   string `form:"venue_type" validate:"required"`
	Address     string `form:"address" validate:"required"`
	Message     string `form:"message"`
	PeopleCount string `form:"people_count" validate:"omitempty,numeric"`
}

type ReservationForm struct {
	EventForm
}

type DiscussionForm struct {
	ServiceID     string `form:"service_id" validate:"required"`
	ProposedPrice string `form:"proposed_price" validate:"required"`
	EventForm
}

// FieldErrors maps a form field to its French message.
type FieldErrors map[string]string

func (e FieldErrors) Any() bool { return len(e) > 0 }

type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{validate: validator.New()}
}

// check trims every field then runs presence validation.
func (v *FormValidator) check(form interface{}) FieldErrors {
	errs := FieldErrors{}
	err := v.validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = "Formulaire invalide."
		return errs
	}
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			errs[fe.Field()] = label + " est obligatoire."
		default:
			errs[fe.Field()] = label + " est invalide."
		}
	}
	return errs
}

func (f *EventForm) trim() {
	f.EventDate = strings.TrimSpace(f.EventDate)
	f.VenueType = strings.TrimSpace(f.VenueType)
	f.Address = strings.TrimSpace(f.Address)
	f.Message = strings.TrimSpace(f.Message)
	f.PeopleCount = strings.TrimSpace(f.PeopleCount)
}

func (f EventForm) details() reservations.EventDetailsRequest {
	people, _ := strconv.Atoi(f.PeopleCount)
	return reservations.EventDetailsRequest{
		EventDate:   f.EventDate,
		VenueType:   reservations.VenueType(f.VenueType),
		Address:     f.Address,
		PeopleCount: people,
		Message:     f.Message,
	}
}

// ValidateReservation returns the request to send, or the field errors.
func (v *FormValidator) ValidateReservation(serviceID string, form ReservationForm) (reservations.CreateReservationRequest, FieldErrors) {
	form.trim()
	errs := v.check(form)
	if errs.Any() {
		return reservations.CreateReservationRequest{}, errs
	}
	return reservations.CreateReservationRequest{
		ServiceID:           serviceID,
		EventDetailsRequest: form.details(),
	}, nil
}

func (v *FormValidator) ValidateDiscussion(form DiscussionForm) (discussions.CreateDiscussionRequest, FieldErrors) {
	form.trim()
	form.ServiceID = strings.TrimSpace(form.ServiceID)
	form.ProposedPrice = strings.TrimSpace(strings.ReplaceAll(form.ProposedPrice, " ", ""))

	errs := v.check(form)
	var price decimal.Decimal
	if _, missing := errs["ProposedPrice"]; !missing {
		parsed, err := decimal.NewFromString(form.ProposedPrice)
		if err != nil {
			errs["ProposedPrice"] = "Le prix proposé doit être un montant en FCFA."
		}
		price = parsed
	}
	if errs.Any() {
		return discussions.CreateDiscussionRequest{}, errs
	}

	return discussions.CreateDiscussionRequest{
		ServiceID:           form.ServiceID,
		ProposedPrice:       price,
		EventDetailsRequest: form.details(),
	}, nil
}
