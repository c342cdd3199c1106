package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

var testSchema = MustCompile(`{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0}
	}
}`)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestSchema_Validate(t *testing.T) {
	if err := testSchema.Validate([]byte(`{"name":"Asha","age":30}`)); err != nil {
		t.Errorf("expected valid body, got %v", err)
	}

	err := testSchema.Validate([]byte(`{"name":""}`))
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || len(appErr.Details) != 2 {
		t.Errorf("expected 2 details, got %+v", appErr)
	}
}

func TestSchema_Validate_NotJSON(t *testing.T) {
	if err := testSchema.Validate([]byte(`{not json`)); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestCompile_BadSchema(t *testing.T) {
	if _, err := Compile(`{"type": 12}`); err == nil {
		t.Error("expected error for bad schema")
	}
}

func TestBind(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ravi","age":41}`))
	c := e.NewContext(req, httptest.NewRecorder())

	var p person
	if err := Bind(c, testSchema, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Ravi" || p.Age != 41 {
		t.Errorf("unexpected bind result %+v", p)
	}
}

func TestBind_Invalid(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ravi","age":-1}`))
	c := e.NewContext(req, httptest.NewRecorder())

	var p person
	if err := Bind(c, testSchema, &p); !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestBind_LargeBody(t *testing.T) {
	name := strings.Repeat("a", 3<<19)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+name+`","age":7}`))
	c := e.NewContext(req, httptest.NewRecorder())

	var p person
	if err := Bind(c, testSchema, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Name) != len(name) || p.Age != 7 {
		t.Errorf("expected the whole body to be bound, got name of %d bytes", len(p.Name))
	}
}
