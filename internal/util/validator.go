package util

import (
	"lms_backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the enum tags used in request bindings.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"question_type": func(fl validator.FieldLevel) bool {
			return model.ValidQuestionType(model.QuestionType(fl.Field().String()))
		},
		"assessment_type": func(fl validator.FieldLevel) bool {
			return model.ValidAssessmentType(model.AssessmentType(fl.Field().String()))
		},
		"assessment_status": func(fl validator.FieldLevel) bool {
			return model.ValidAssessmentStatus(model.AssessmentStatus(fl.Field().String()))
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
