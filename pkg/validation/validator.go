package validation

import (
	"github.com/go-playground/validator/v10"

	"maintenance-system/pkg/constants"
)

// CustomValidator adapts validator/v10 to the echo.Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func New() *CustomValidator {
	v := validator.New()

	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("workorder_type", func(fl validator.FieldLevel) bool {
		return constants.WorkOrderType(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("workorder_priority", func(fl validator.FieldLevel) bool {
		return constants.WorkOrderPriority(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("workorder_status", func(fl validator.FieldLevel) bool {
		return constants.WorkOrderStatus(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation("equipment_status", func(fl validator.FieldLevel) bool {
		return constants.EquipmentStatus(fl.Field().String()).IsValid()
	})
}
