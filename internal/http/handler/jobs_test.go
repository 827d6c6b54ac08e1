package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftgrab/internal/auth"
	"shiftgrab/internal/shift"
)

func authedRequest(t *testing.T, jwtSvc *auth.JWT, method, target, body string) *http.Request {
	t.Helper()
	token, err := jwtSvc.Sign(7)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateJobHandler(t *testing.T) {
	gdb, mock := newMockDB(t)
	client, calls := fakeGateway(t)
	jwtSvc := auth.NewJWT("test-secret")

	h := &JobsHandler{
		Svc:     &shift.Service{DB: gdb},
		SMS:     client,
		BaseURL: "https://shiftgrab.test",
	}
	wrapped := auth.RequireAuth(jwtSvc)(http.HandlerFunc(h.Create))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO "shifts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "phone_numbers" WHERE user_id = \$1 AND \$2 = any\(categories\) AND opted_out = false`).
		WillReturnRows(sqlmock.NewRows(phoneColumns()).
			AddRow(3, 7, "Alice", "+15550001111", "{bar}", false, time.Now()))

	body := `{"businessName":"The Tavern","category":"bar","shift":{"type":"custom","date":"2024-06-01","startTime":"18:00","endTime":"23:00"}}`
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, authedRequest(t, jwtSvc, http.MethodPost, "/jobs", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Job shift.Job `json:"job"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shift.StatusPending, resp.Job.Status)
	assert.Equal(t, "bar", resp.Job.Category)

	sent := calls()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15550001111", sent[0].Phone)
	assert.Contains(t, sent[0].Message, "New Custom Shift Available")
	assert.Contains(t, sent[0].Message, "Date: Saturday, June 1, 2024")
	assert.Contains(t, sent[0].Message, "Time: 6:00 PM - 11:00 PM")
	assert.Contains(t, sent[0].Message, "Claim the shift: https://shiftgrab.test/claim-shift/"+resp.Job.Token)
	assert.Contains(t, sent[0].Message, "opt-out?number=%2B15550001111")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobHandlerNoPhoneNumbers(t *testing.T) {
	gdb, mock := newMockDB(t)
	client, calls := fakeGateway(t)
	jwtSvc := auth.NewJWT("test-secret")

	h := &JobsHandler{Svc: &shift.Service{DB: gdb}, SMS: client, BaseURL: "https://shiftgrab.test"}
	wrapped := auth.RequireAuth(jwtSvc)(http.HandlerFunc(h.Create))

	// the job row is created and persists even though nobody can be told
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO "shifts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "phone_numbers" WHERE user_id = \$1 AND \$2 = any\(categories\) AND opted_out = false`).
		WillReturnRows(sqlmock.NewRows(phoneColumns()))

	body := `{"businessName":"The Tavern","category":"bar","shift":{"startTime":"18:00","endTime":"23:00"}}`
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, authedRequest(t, jwtSvc, http.MethodPost, "/jobs", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no phone numbers found for user")
	assert.Empty(t, calls())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobHandlerMissingFields(t *testing.T) {
	gdb, _ := newMockDB(t)
	client, calls := fakeGateway(t)
	jwtSvc := auth.NewJWT("test-secret")

	h := &JobsHandler{Svc: &shift.Service{DB: gdb}, SMS: client, BaseURL: "https://shiftgrab.test"}
	wrapped := auth.RequireAuth(jwtSvc)(http.HandlerFunc(h.Create))

	body := `{"businessName":"The Tavern","shift":{"startTime":"18:00"}}`
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, authedRequest(t, jwtSvc, http.MethodPost, "/jobs", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required fields")
	assert.Empty(t, calls())
}

func TestCreateJobHandlerUnauthorized(t *testing.T) {
	gdb, _ := newMockDB(t)
	client, _ := fakeGateway(t)
	jwtSvc := auth.NewJWT("test-secret")

	h := &JobsHandler{Svc: &shift.Service{DB: gdb}, SMS: client, BaseURL: "https://shiftgrab.test"}
	wrapped := auth.RequireAuth(jwtSvc)(http.HandlerFunc(h.Create))

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
