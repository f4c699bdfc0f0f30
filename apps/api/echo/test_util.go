package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/staff"
	"github.com/zawadi/shule/core/student"
	emailsvc "github.com/zawadi/shule/services/email"
	dummydb "github.com/zawadi/shule/storage/database/dummy"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL %s %v", msg, args) }

type testApp struct {
	srv         Server
	conf        *core.Config
	staffSvc    *staff.Service
	studentSvc  *student.Service
	staffRepo   staff.Repository
	studentRepo student.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		AppName:          "Shule",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
	}
	conf.PasswordResetTimeoutDelta = 3 * 24 * time.Hour
	conf.Server.MaxUploadSize = 8 << 20
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour

	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestApp() failed: %v", err)
	}
	staffRepo := dummydb.NewStaffRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	staffSvc := staff.NewService(staffRepo, validate, translator)
	studentSvc := student.NewService(studentRepo, validate, translator)

	srv := NewServer(&Options{
		DisableReqLogs: true,
		AppConf:        conf,
		Logger:         testLogger{t},
		EmailSvc:       emailsvc.NewConsoleServiceMock(conf),
		Validate:       validate,
		Translator:     translator,
		StaffSvc:       staffSvc,
		StudentSvc:     studentSvc,
		SignalShutdown: func() {},
	})

	resetSentMessages()
	return &testApp{
		srv:         srv,
		conf:        conf,
		staffSvc:    staffSvc,
		studentSvc:  studentSvc,
		staffRepo:   staffRepo,
		studentRepo: studentRepo,
	}
}

func resetSentMessages() {
	emailsvc.SentMessages = emailsvc.SentMessages[:0]
}

func (app *testApp) createStaff(t *testing.T, name, uname, email, pwd string, roles []string) staff.Staff {
	t.Helper()
	now := time.Now().UTC()
	stf := staff.Staff{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := stf.SetPassword(pwd); err != nil {
			t.Fatalf("createStaff() failed: %v", err)
		}
	}
	stf, err := app.staffRepo.CreateStaff(context.Background(), stf)
	if err != nil {
		t.Fatalf("createStaff() failed: %v", err)
	}
	return stf
}

func (app *testApp) getToken(t *testing.T, stf staff.Staff) string {
	t.Helper()
	token, err := GenerateToken(app.conf, GetStaffClaims(app.conf, stf))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newUploadRequest(t *testing.T, path, token, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}
	if _, err = fw.Write(content); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkData(t *testing.T, rec *httptest.ResponseRecorder, wantData []byte) {
	t.Helper()
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(wantData))
	}
}
