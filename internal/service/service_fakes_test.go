package service_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/steveiliop56/authlink/internal/model"
)

type fakeOAuthService struct {
	mu            sync.Mutex
	verifiers     int
	exchangeCalls int
	codes         []string
	verifiersUsed []string
	ctxErrs       []error
	credential    model.Credential
	exchangeErr   error
	authErr       error
	release       chan struct{}
}

func (f *fakeOAuthService) Init() error {
	return nil
}

func (f *fakeOAuthService) GenerateVerifier() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifiers++
	return fmt.Sprintf("verifier-%d", f.verifiers)
}

func (f *fakeOAuthService) GetAuthURL(state string, verifier string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "https://provider.example.com/auth?state=" + url.QueryEscape(state), nil
}

func (f *fakeOAuthService) Exchange(ctx context.Context, code string, verifier string) (model.Credential, error) {
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.exchangeCalls++
	f.codes = append(f.codes, code)
	f.verifiersUsed = append(f.verifiersUsed, verifier)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())

	if f.exchangeErr != nil {
		return model.Credential{}, f.exchangeErr
	}
	return f.credential, nil
}

func (f *fakeOAuthService) GetName() string {
	return "Fake"
}

func (f *fakeOAuthService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exchangeCalls
}

type sentMessage struct {
	chatID int64
	text   string
	button *model.LinkButton
}

type fakeChatSender struct {
	mu       sync.Mutex
	messages []sentMessage
	err      error
}

func (f *fakeChatSender) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return f.err
}

func (f *fakeChatSender) SendLink(_ context.Context, chatID int64, text string, button model.LinkButton) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, button: &button})
	return f.err
}

func (f *fakeChatSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return sentMessage{}
	}
	return f.messages[len(f.messages)-1]
}

type failingSink struct {
	err error
}

func (s failingSink) Bind(model.Identity, model.Credential) error {
	return s.err
}
