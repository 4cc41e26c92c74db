package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/examally/examally/apps/api/echo"
	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
	"github.com/examally/examally/services/email"
	"github.com/examally/examally/services/logger"
	"github.com/examally/examally/storage/database/inmem"
	"github.com/examally/examally/storage/localstore"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	codeRegex       = regexp.MustCompile(`\b\d{6}\b`)
)

type testApp struct {
	*Server
	conf    *core.Config
	db      *inmemdb.DB // users & notifications
	records *inmemdb.DB // exams & marks
	usrRepo user.Repository
	exmRepo exam.Repository
	mrkRepo mark.Repository
	ntfRepo notify.Repository
}

type setupOptions struct {
	mailSvc   core.EmailService
	configure func(conf *core.Config)
}

type setupOption func(opts *setupOptions)

func withConfig(fn func(conf *core.Config)) setupOption {
	return func(opts *setupOptions) { opts.configure = fn }
}

// withMailService replaces the recording console mock.
func withMailService(svc core.EmailService) setupOption {
	return func(opts *setupOptions) { opts.mailSvc = svc }
}

func setup(t *testing.T, options ...setupOption) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()

	opts := setupOptions{mailSvc: emailsvc.NewConsoleServiceMock(conf, logger)}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.configure != nil {
		opts.configure(conf)
	}
	emailsvc.ClearSentMessages()

	// set up DB & repos
	db, records := inmemdb.Open(), inmemdb.Open()
	local, err := localstore.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	app := &testApp{
		conf:    conf,
		db:      db,
		records: records,
		usrRepo: inmemdb.NewUserRepository(db),
		exmRepo: localstore.NewExamRepository(inmemdb.NewExamRepository(records), local, logger),
		mrkRepo: localstore.NewMarkRepository(inmemdb.NewMarkRepository(records), local, logger),
		ntfRepo: inmemdb.NewNotifyRepository(db),
	}

	// set up validators
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	mark.InitValidators(validate, translator)
	user.LoadCommonPasswords(logger)

	// set up server
	app.Server = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    user.NewService(app.usrRepo),
		ExamSvc:    exam.NewService(app.exmRepo, conf),
		MarkSvc:    mark.NewService(app.mrkRepo),
		NotifySvc:  notify.NewService(app.ntfRepo, notify.NewMemoryCodeStore(), opts.mailSvc, logger, conf),
		Validate:   validate,
		Translator: translator,
	})
	return app
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

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
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

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(app.conf, GetUserClaims(app.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshalObj(t *testing.T, data []byte, obj interface{}) {
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarshalObj(%s) failed: %v", data, err)
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
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// sentCode extracts the verification code from the last verification email sent to addr.
func sentCode(t *testing.T, addr string) string {
	t.Helper()

	msgs := emailsvc.SentMessages()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.TemplateName != string(notify.KindVerification) || msg.To[0].Address != addr {
			continue
		}
		code := codeRegex.FindString(msg.TextContent)
		require.NotEmpty(t, code, "no code in %q", msg.TextContent)
		return code
	}
	t.Fatalf("no verification email sent to %s", addr)
	return ""
}
