package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kumbuka/core"
	"github.com/trezcool/kumbuka/core/preference"
	"github.com/trezcool/kumbuka/core/privacy"
	"github.com/trezcool/kumbuka/core/recent"
	logsvc "github.com/trezcool/kumbuka/services/logger"
	dummydb "github.com/trezcool/kumbuka/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	conf     *core.Config
	db       *dummydb.DB
	prefRepo preference.Repository
	app      Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{
		TestMode:        true,
		AppName:         "Kumbuka",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://localhost",
		Server:          core.ServerConfig{JWTExpirationDelta: time.Hour},
		Block:           core.BlockConfig{DefaultLimit: preference.DefaultLimit},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	prefRepo := dummydb.NewPreferenceRepository(db)
	recentRepo := dummydb.NewRecentRepository(db)
	access := dummydb.NewAccessChecker(db)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
		Validate:   validate,
		Translator: translator,
		PrefSvc:    preference.NewService(prefRepo, conf),
		RecentSvc:  recent.NewService(recentRepo, prefRepo, access, conf),
		Privacy:    privacy.NewProvider(prefRepo),
		Access:     access,
	})
	return &testEnv{conf: conf, db: db, prefRepo: prefRepo, app: app}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (te *testEnv) token(t *testing.T, userID int, username string) string {
	t.Helper()
	claims := NewSessionClaims(te.conf, userID, username)
	return signClaims(t, te.conf, claims)
}

func (te *testEnv) guestToken(t *testing.T) string {
	t.Helper()
	claims := NewSessionClaims(te.conf, 1, "guest")
	claims.Guest = true
	return signClaims(t, te.conf, claims)
}

func (te *testEnv) serviceToken(t *testing.T) string {
	t.Helper()
	claims := NewSessionClaims(te.conf, 0, "compliance")
	claims.IsService = true
	return signClaims(t, te.conf, claims)
}

func signClaims(t *testing.T, conf *core.Config, claims *Claims) string {
	t.Helper()
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decodeBody(): %v", err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
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
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
