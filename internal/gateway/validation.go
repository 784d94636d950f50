package gateway

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ShareIt-Platform/service-sharing/internal/common/datetime"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

// bookingTimeMessage is reported for every invalid booking period.
const bookingTimeMessage = "Error with booking time"

type bookingBody struct {
	ItemID *int64     `json:"itemId" validate:"required,gt=0"`
	Start  *time.Time `json:"start" validate:"required,not_past"`
	End    *time.Time `json:"end" validate:"required,not_past"`
}

// UnmarshalJSON accepts zone-less start and end values as UTC.
func (b *bookingBody) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID *int64             `json:"itemId"`
		Start  *datetime.DateTime `json:"start"`
		End    *datetime.DateTime `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ItemID = raw.ItemID
	b.Start = raw.Start.Ptr()
	b.End = raw.End.Ptr()
	return nil
}

type createUserBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserBody struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type createItemBody struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type updateItemBody struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Available   *bool   `json:"available"`
}

type itemRequestBody struct {
	Description string `json:"description" validate:"required"`
}

type commentBody struct {
	Text string `json:"text" validate:"required"`
}

type listQuery struct {
	State string `form:"state"`
	From  int    `form:"from,default=0" validate:"min=0"`
	Size  int    `form:"size,default=10" validate:"min=1"`
}

// newValidator returns a validator aware of the booking rules. now is
// evaluated on every check.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.Before(now().Truncate(time.Second))
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		b := sl.Current().Interface().(bookingBody)
		if b.Start == nil || b.End == nil {
			return
		}
		if !b.Start.Before(*b.End) {
			sl.ReportError(b.End, "End", "end", "booking_period", "")
		}
	}, bookingBody{})
	return v
}

// validationMessage renders a validation failure. Booking period problems
// share one message regardless of the rule that failed.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "booking_period" || fe.Tag() == "not_past" {
				return bookingTimeMessage
			}
		}
	}
	return response.ValidationMessage(err)
}
