package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/steveiliop56/authlink/internal/assets"
	"github.com/steveiliop56/authlink/internal/controller"
	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/service"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-querystring/query"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type callbackQuery struct {
	State string `url:"state,omitempty"`
	Code  string `url:"code,omitempty"`
	Error string `url:"error,omitempty"`
}

func callbackURL(t *testing.T, q callbackQuery) string {
	values, err := query.Values(q)
	assert.NilError(t, err)
	return "/oauth2callback?" + values.Encode()
}

type fakeOAuthService struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (f *fakeOAuthService) Init() error { return nil }

func (f *fakeOAuthService) GenerateVerifier() string { return "verifier" }

func (f *fakeOAuthService) GetAuthURL(state string, verifier string) (string, error) {
	return "https://provider.example.com/auth?state=" + state, nil
}

func (f *fakeOAuthService) Exchange(ctx context.Context, code string, verifier string) (model.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if f.err != nil {
		return model.Credential{}, f.err
	}
	return model.Credential{AccessToken: "ya29.abcdefghijklmnop", ObtainedAt: time.Now()}, nil
}

func (f *fakeOAuthService) GetName() string { return "Google" }

type callbackFixture struct {
	router      *gin.Engine
	issuer      *service.IssuerService
	credentials *service.CredentialService
	oauth       *fakeOAuthService
}

func newCallbackFixture(t *testing.T) callbackFixture {
	gin.SetMode(gin.TestMode)

	oauth := &fakeOAuthService{}

	store := service.NewStateStoreService(service.StateStoreServiceConfig{TTL: time.Minute})
	assert.NilError(t, store.Init())

	issuer := service.NewIssuerService(service.IssuerServiceConfig{}, store, oauth)
	assert.NilError(t, issuer.Init())

	credentials := service.NewCredentialService()
	assert.NilError(t, credentials.Init())

	resolver := service.NewResolverService(service.ResolverServiceConfig{}, store, oauth, credentials)
	assert.NilError(t, resolver.Init())

	tmpl, err := assets.LoadTemplates()
	assert.NilError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	ctrl := controller.NewOAuthController(controller.OAuthControllerConfig{
		CallbackPath: "/oauth2callback",
		ProviderName: "Google",
	}, &router.RouterGroup, resolver)
	ctrl.SetupRoutes()

	return callbackFixture{
		router:      router,
		issuer:      issuer,
		credentials: credentials,
		oauth:       oauth,
	}
}

func (fx callbackFixture) get(path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	fx.router.ServeHTTP(recorder, req)
	return recorder
}

func TestCallbackResolves(t *testing.T) {
	fx := newCallbackFixture(t)
	identity := model.Identity{ChatID: 100, UserID: 1, Username: "alice"}

	_, token, err := fx.issuer.Issue(identity)
	assert.NilError(t, err)

	recorder := fx.get(callbackURL(t, callbackQuery{State: token, Code: "C1"}))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "Authorization complete"))
	assert.Assert(t, is.Contains(recorder.Body.String(), "@alice (1)"))
	assert.Assert(t, is.Contains(recorder.Body.String(), "ya29.abcde..."))
	assert.Assert(t, !strings.Contains(recorder.Body.String(), "ya29.abcdefghijklmnop"))

	credential, ok := fx.credentials.Get(identity)
	assert.Assert(t, ok)
	assert.Equal(t, "ya29.abcdefghijklmnop", credential.AccessToken)

	// Replaying the same redirect is refused
	recorder = fx.get(callbackURL(t, callbackQuery{State: token, Code: "C1"}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "csrf_or_expired"))
	assert.DeepEqual(t, []string{"C1"}, fx.oauth.codes)
}

func TestCallbackUnknownState(t *testing.T) {
	fx := newCallbackFixture(t)

	recorder := fx.get(callbackURL(t, callbackQuery{State: "forged", Code: "C1"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "csrf_or_expired"))
	assert.Equal(t, 0, len(fx.oauth.codes))
}

func TestCallbackMissingState(t *testing.T) {
	fx := newCallbackFixture(t)

	recorder := fx.get(callbackURL(t, callbackQuery{Code: "C1"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "missing_state"))
}

func TestCallbackProviderError(t *testing.T) {
	fx := newCallbackFixture(t)

	_, token, err := fx.issuer.Issue(model.Identity{ChatID: 100, UserID: 1})
	assert.NilError(t, err)

	recorder := fx.get(callbackURL(t, callbackQuery{State: token, Error: "access_denied"}))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "Authorization denied"))
	assert.Assert(t, is.Contains(recorder.Body.String(), "access_denied"))
	assert.Equal(t, 0, len(fx.oauth.codes))
}

func TestCallbackExchangeFailure(t *testing.T) {
	fx := newCallbackFixture(t)
	fx.oauth.err = errors.New("invalid_grant")

	_, token, err := fx.issuer.Issue(model.Identity{ChatID: 100, UserID: 1})
	assert.NilError(t, err)

	recorder := fx.get(callbackURL(t, callbackQuery{State: token, Code: "C1"}))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "exchange_failed"))
}

func TestCallbackOrphaned(t *testing.T) {
	fx := newCallbackFixture(t)

	_, token, err := fx.issuer.Issue(model.Identity{})
	assert.NilError(t, err)

	recorder := fx.get(callbackURL(t, callbackQuery{State: token, Code: "C1"}))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Assert(t, is.Contains(recorder.Body.String(), "Authorization incomplete"))
}

func TestHealthController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ctrl := controller.NewHealthController(&router.RouterGroup)
	ctrl.SetupRoutes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var res map[string]string
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	assert.Equal(t, "healthy", res["status"])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodHead, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "authlink is running", recorder.Body.String())
}

type recordingUpdateHandler struct {
	updates []tgbotapi.Update
	err     error
}

func (h *recordingUpdateHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	h.updates = append(h.updates, update)
	return h.err
}

func newWebhookRouter(secret string, handler controller.UpdateHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ctrl := controller.NewWebhookController(controller.WebhookControllerConfig{
		Path:        "/webhook",
		SecretToken: secret,
	}, &router.RouterGroup, handler)
	ctrl.SetupRoutes()

	return router
}

func postUpdate(router *gin.Engine, secret string, body []byte) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(controller.SecretTokenHeader, secret)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestWebhookDispatchesUpdate(t *testing.T) {
	handler := &recordingUpdateHandler{err: errors.New("chat not found")}
	router := newWebhookRouter("s3cret", handler)

	body := []byte(`{"update_id": 42, "message": {"message_id": 1, "date": 0, "text": "/auth", "chat": {"id": 100, "type": "private"}, "from": {"id": 1, "is_bot": false, "first_name": "Alice"}, "entities": [{"type": "bot_command", "offset": 0, "length": 5}]}}`)

	recorder := postUpdate(router, "s3cret", body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, len(handler.updates))
	assert.Equal(t, 42, handler.updates[0].UpdateID)
	assert.Equal(t, "auth", handler.updates[0].Message.Command())
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	handler := &recordingUpdateHandler{}
	router := newWebhookRouter("s3cret", handler)

	recorder := postUpdate(router, "guess", []byte(`{"update_id": 1}`))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = postUpdate(router, "", []byte(`{"update_id": 1}`))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	assert.Equal(t, 0, len(handler.updates))
}

func TestWebhookWithoutSecret(t *testing.T) {
	handler := &recordingUpdateHandler{}
	router := newWebhookRouter("", handler)

	recorder := postUpdate(router, "", []byte(`{"update_id": 1}`))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, len(handler.updates))
}

func TestWebhookMalformedBody(t *testing.T) {
	handler := &recordingUpdateHandler{}
	router := newWebhookRouter("", handler)

	recorder := postUpdate(router, "", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 0, len(handler.updates))
}
