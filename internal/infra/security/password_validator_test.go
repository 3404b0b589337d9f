package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidatorAccepts(t *testing.T) {
	validator := DefaultPasswordValidator()

	passwords := []string{
		"Valida7!",
		"Abcdef1$",
		"Ñandú99*grande",
	}

	for _, password := range passwords {
		if err := validator.Validate(password); err != nil {
			t.Fatalf("expected %q to pass, got %v", password, err)
		}
	}
}

func TestDefaultPasswordValidatorRejects(t *testing.T) {
	validator := DefaultPasswordValidator()

	cases := []struct {
		name     string
		password string
		code     string
	}{
		{"too short", "Ab1!", "min_length"},
		{"no uppercase", "valida7!", "uppercase"},
		{"no digit", "Validaa!", "digit"},
		{"no symbol", "Valida77", "symbol"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.password)
			if err == nil {
				t.Fatalf("expected %q to fail", tc.password)
			}

			var verr *PasswordValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected PasswordValidationError, got %T", err)
			}
			if verr.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, verr.Code)
			}
		})
	}
}

func TestMinLengthRuleCountsRunes(t *testing.T) {
	rule := MinLengthRule(7)

	// Seven multibyte runes, more than seven bytes.
	if err := rule.Validate("ñññññññ"); err != nil {
		t.Fatalf("expected seven runes to satisfy the rule, got %v", err)
	}
}

func TestNewPasswordValidatorComposesRules(t *testing.T) {
	validator := NewPasswordValidator(MinLengthRule(12), RequireDigitRule())

	if err := validator.Validate("shortpass1"); err == nil {
		t.Fatal("expected length violation")
	}

	if err := validator.Validate("longenoughpass1"); err != nil {
		t.Fatalf("expected password to pass, got %v", err)
	}
}

func TestPasswordStrengthScoreOrdering(t *testing.T) {
	weak := PasswordStrengthScore("password")
	strong := PasswordStrengthScore("correct horse battery staple 42!")

	if weak >= strong {
		t.Fatalf("expected weak score %d below strong score %d", weak, strong)
	}
}
