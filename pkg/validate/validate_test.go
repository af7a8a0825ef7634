package validate_test

import (
	"testing"

	"github.com/forkful/forkful/pkg/validate"
)

type createRestaurantInput struct {
	Name        string  `json:"name"        validate:"required,min=2"`
	Description string  `json:"description" validate:"required"`
	Email       string  `json:"email"       validate:"required,email"`
	PhoneNo     string  `json:"phoneNo"     validate:"required,min=7"`
	Address     string  `json:"address"     validate:"required"`
	Category    string  `json:"category"    validate:"required,in=Fast Food,Cafe,Fine Dining"`
	Price       float64 `json:"price"       validate:"nullable,gt=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(createRestaurantInput{
		Name:        "Pasta Palace",
		Description: "Fresh pasta made daily",
		Email:       "hello@pastapalace.dev",
		PhoneNo:     "15550100001",
		Address:     "200 Olympic Dr, Stafford, VS, 22554",
		Category:    "Fine Dining",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(createRestaurantInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "description", "email", "phoneNo", "address", "category"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

// Values in an in= list may themselves contain commas-adjacent spaces
// ("Fast Food"); the rule list must not be split apart.
func TestInRuleWithSpaces(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"required,in=Fast Food,Cafe,Fine Dining"`
	}
	if errs := validate.Struct(in{Category: "Fast Food"}); validate.HasErrors(errs) {
		t.Errorf("expected Fast Food to be accepted, got: %v", errs)
	}
	if errs := validate.Struct(in{Category: "Drive Thru"}); !validate.HasErrors(errs) {
		t.Error("expected invalid category to be rejected")
	}
}

func TestGtRule(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"required,gt=0"`
	}
	if errs := validate.Struct(in{Price: -3}); !validate.HasErrors(errs) {
		t.Error("expected negative price to be rejected")
	}
	if errs := validate.Struct(in{Price: 9.99}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestMinOnStringsAndNumbers(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2"`
		Age  int    `json:"age"  validate:"nullable,min=18"`
	}
	errs := validate.Struct(in{Name: "x"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected short name to fail min")
	}
	errs = validate.Struct(in{Name: "ok", Age: 12})
	if _, ok := errs["age"]; !ok {
		t.Error("expected small age to fail min")
	}
}

// Partial-update inputs use pointer fields: nil skips validation entirely,
// non-nil values are validated.
func TestNilPointerSkipsRules(t *testing.T) {
	type in struct {
		Name  *string `json:"name"  validate:"nullable,min=2"`
		Email *string `json:"email" validate:"nullable,email"`
	}
	if errs := validate.Struct(in{}); validate.HasErrors(errs) {
		t.Errorf("expected nil pointers to pass, got: %v", errs)
	}

	bad := "x"
	errs := validate.Struct(in{Name: &bad})
	if _, ok := errs["name"]; !ok {
		t.Error("expected non-nil short name to fail")
	}
}

func TestErrorMessageUsesJSONName(t *testing.T) {
	type in struct {
		PhoneNo string `json:"phoneNo" validate:"required"`
	}
	errs := validate.Struct(in{})
	if msg, ok := errs["phoneNo"]; !ok || msg != "The phoneNo field is required." {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{})
	if errs["email"] != "The email field is required." {
		t.Errorf("expected required message first, got: %q", errs["email"])
	}
}
