package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&UserPreferences{},
		&Company{},
		&JobPosting{},
		&CandidateProfile{},
		&Application{},
		&ApplicationFeedback{},
		&FeedbackResponse{},
		&FeedbackTemplate{},
		&CommunityPost{},
		&CommunityComment{},
		&MentorshipRequest{},
		&ResourceShare{},
		&AIDecisionLog{},
		&BiasAuditLog{},
		&EthicalAIGuideline{},
		&DataPrivacyLog{},
	)
}

// ErrValidation is wrapped by every error returned from a model Validate method.
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags of v and flattens the first failure
// into an ErrValidation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s must satisfy %s=%s, got %q", ErrValidation, fe.Field(), fe.Tag(), fe.Param(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("%w: %s failed %s", ErrValidation, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
