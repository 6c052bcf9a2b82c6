package scoring

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"uniguide/backend/internal/model"
)

var (
	ErrInvalidUniversity = errors.New("invalid university record")
	ErrInvalidProfile    = errors.New("invalid student profile")
)

var validate = validator.New()

// ValidateUniversity checks the record invariants: at least one program,
// acceptance rate within [0,100], non-negative ranking and costs.
func ValidateUniversity(u *model.University) error {
	if u == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidUniversity)
	}
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUniversity, describe(err))
	}
	return nil
}

// ValidateProfile checks budget_min <= budget_max when both are present.
func ValidateProfile(s *model.Student) error {
	if s == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if s.BudgetMin != nil && s.BudgetMax != nil && *s.BudgetMin > *s.BudgetMax {
		return fmt.Errorf("%w: budget_min %.0f exceeds budget_max %.0f", ErrInvalidProfile, *s.BudgetMin, *s.BudgetMax)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
}
