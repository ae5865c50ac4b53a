package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ownerRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

type cellRequest struct {
	OwnerID    string `json:"owner_id" validate:"required,uuid"`
	FieldIndex int    `json:"field_index" validate:"gte=0"`
}

type placeRequest struct {
	OwnerID    string `json:"owner_id" validate:"required,uuid"`
	FieldIndex int    `json:"field_index" validate:"gte=0"`
	AssetID    int64  `json:"asset_id" validate:"gt=0"`
}

type fixtureRequest struct {
	OwnerID    string `json:"owner_id" validate:"required,uuid"`
	FieldIndex int    `json:"field_index" validate:"gte=0"`
	Kind       string `json:"kind" validate:"required,oneof=plant decoration"`
}

type exhibitRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	AssetID int64  `json:"asset_id" validate:"gt=0"`
	Slot    int    `json:"slot" validate:"gte=0"`
}

type likeRequest struct {
	LikerID    string `json:"liker_id" validate:"required,uuid"`
	CreatureID int64  `json:"creature_id" validate:"gt=0"`
}

type sellRequest struct {
	OwnerID    string `json:"owner_id" validate:"required,uuid"`
	CreatureID int64  `json:"creature_id" validate:"gt=0"`
}

type grantRequest struct {
	OwnerID  string `json:"owner_id" validate:"required,uuid"`
	AssetID  int64  `json:"asset_id" validate:"gt=0"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// check validates req and converts the first failure to a domain.ValidationError
func check(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("request", err.Error())
	}
	e := verrs[0]
	return domain.NewValidationError(e.Field(), reason(e))
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "uuid":
		if strings.HasSuffix(e.Field(), "owner_id") {
			return domain.ErrMsgInvalidOwnerID
		}
		return "must be a uuid"
	case "gt":
		if e.Field() == "quantity" {
			return domain.ErrMsgInvalidQuantity
		}
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	default:
		return "is invalid"
	}
}
