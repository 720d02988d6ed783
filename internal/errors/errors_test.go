package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error, context string) (int, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithAppError(c, err, context)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondWithAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Validation",
			err:        NewFieldError(ValidationTooShort, "name", "min 3"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ValidationTooShort,
		},
		{
			name:       "Wrapped conflict",
			err:        fmt.Errorf("check: %w", NewConflict(SlugTaken, "slug", "Esa dirección ya está en uso")),
			wantStatus: http.StatusConflict,
			wantCode:   SlugTaken,
		},
		{
			name:       "Status error",
			err:        ForbiddenError(AuthzOwnerOnly, "no"),
			wantStatus: http.StatusForbidden,
			wantCode:   AuthzOwnerOnly,
		},
		{
			name:       "Submission wins over its transport cause",
			err:        &SubmissionError{Stage: "links", Err: &TransportError{Op: "insert", Err: errors.New("boom")}},
			wantStatus: http.StatusInternalServerError,
			wantCode:   SubmissionFailed,
		},
		{
			name:       "Transport",
			err:        NewTransportError("upload", errors.New("connection reset")),
			wantStatus: http.StatusBadGateway,
			wantCode:   InternalExternalAPI,
		},
		{
			name:       "Record not found",
			err:        gorm.ErrRecordNotFound,
			context:    "get review",
			wantStatus: http.StatusNotFound,
			wantCode:   ReviewNotFound,
		},
		{
			name:       "Unknown",
			err:        errors.New("disk on fire"),
			context:    "update blog",
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond(t, tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondWithAppError_Fields(t *testing.T) {
	_, body := respond(t, NewFieldError(ValidationRequired, "category", "required"), "")
	assert.Equal(t, map[string]string{"category": "required"}, body.Fields)

	_, body = respond(t, NewConflict(CollectionDuplicatePlatform, "platform", "ya existe"), "")
	assert.Equal(t, map[string]string{"platform": "ya existe"}, body.Fields)
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"Nil", nil, "", InternalServerError},
		{"Sqlite unique slug", errors.New("UNIQUE constraint failed: companies.slug"), "", SlugTaken},
		{"Postgres unique blog slug", errors.New(`duplicate key value violates unique constraint "idx_blogs_company_slug"`), "", ResourceAlreadyExists},
		{"Foreign key company", errors.New(`insert violates foreign key constraint "fk_companies_links" (company_id)`), "", CompanyNotFound},
		{"Still referenced", errors.New("update or delete violates foreign key constraint, key is still referenced"), "", ResourceConflict},
		{"Not null", errors.New("NOT NULL constraint failed: companies.name"), "", ValidationRequired},
		{"Rating check", errors.New(`violates check constraint "chk_rating"`), "", ReviewInvalidRating},
		{"Network", errors.New("dial tcp: connection refused"), "", InternalExternalAPI},
		{"Not found link", gorm.ErrRecordNotFound, "toggle link", CollectionItemNotFound},
		{"Not found wizard", gorm.ErrRecordNotFound, "wizard session", WizardSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotContains(t, info.Message, "constraint")
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Code:    ValidationInvalidInput,
		Message: "invalid",
		Fields:  map[string]string{"slug": "taken", "name": "short"},
	}
	assert.Equal(t, "invalid (name: short, slug: taken)", err.Error())

	assert.Nil(t, NewTransportError("noop", nil))
	assert.Equal(t, "name: ya existe", NewConflict(ResourceConflict, "name", "ya existe").Error())
}
