package models

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// requiredUUID rejects uuid.Nil. validation.Required does not, since a
// uuid.UUID is a non-empty array.
var requiredUUID = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return errors.New("cannot be blank")
		}
	case *uuid.UUID:
		if v == nil || *v == uuid.Nil {
			return errors.New("cannot be blank")
		}
	default:
		return fmt.Errorf("unexpected type %T", value)
	}
	return nil
})

// uuidList rejects nil ids inside a list
var uuidList = validation.By(func(value interface{}) error {
	ids, ok := value.([]uuid.UUID)
	if !ok {
		return fmt.Errorf("unexpected type %T", value)
	}
	for i, id := range ids {
		if id == uuid.Nil {
			return fmt.Errorf("entry %d is blank", i)
		}
	}
	return nil
})

// malformed turns ozzo validation errors into a MalformedRecordError. Other
// errors are returned unchanged.
func malformed(collection string, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		fields[field] = ferr.Error()
	}
	return shared.NewMalformedRecordError(collection, id.String(), fields)
}
