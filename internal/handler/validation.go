package handler

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"quotely/internal/domain"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the request tags used by the service DTOs to gin's
// binding validator. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("handler.RegisterValidators: unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		for tag, fn := range map[string]validator.Func{
			"gstin":         validateGSTIN,
			"user_role":     validateUserRole,
			"discount_type": validateDiscountType,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("handler.RegisterValidators: %s: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}

// validateGSTIN accepts a 15-character GSTIN in either case.
func validateGSTIN(fl validator.FieldLevel) bool {
	return gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func validateUserRole(fl validator.FieldLevel) bool {
	return domain.ValidUserRoles[domain.UserRole(fl.Field().String())]
}

func validateDiscountType(fl validator.FieldLevel) bool {
	return domain.ValidDiscountTypes[domain.DiscountType(fl.Field().String())]
}
