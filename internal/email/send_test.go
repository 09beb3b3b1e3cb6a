package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeEmailSender struct {
	mu        sync.Mutex
	sendCalls int32
	recipient string
	subject   string
	body      string
	ctxErr    error
	err       error
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	atomic.AddInt32(&f.sendCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipient = recipient
	f.subject = subject
	f.body = body
	f.ctxErr = ctx.Err()
	return f.err
}

func waitFor(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for send")
	}
}

func TestSendActivationEmail_DetachedFromRequestContext(t *testing.T) {
	sender := &fakeEmailSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := BuildActivationEmail(ActivationDetails{Name: "Erika", ClubName: "TC Grün-Weiß"})
	wg := SendActivationEmail(ctx, sender, " erika@example.com ", msg, nil)
	waitFor(t, wg)

	if atomic.LoadInt32(&sender.sendCalls) != 1 {
		t.Fatalf("expected one send call, got %d", atomic.LoadInt32(&sender.sendCalls))
	}
	if sender.ctxErr != nil {
		t.Fatalf("expected send context to survive request cancellation, got %v", sender.ctxErr)
	}
	if sender.recipient != "erika@example.com" {
		t.Fatalf("unexpected recipient %q", sender.recipient)
	}
	if !strings.Contains(sender.subject, "TC Grün-Weiß") {
		t.Fatalf("unexpected subject %q", sender.subject)
	}
}

func TestSendActivationEmail_SkipsIncompleteInput(t *testing.T) {
	sender := &fakeEmailSender{}
	msg := BuildActivationEmail(ActivationDetails{})

	waitFor(t, SendActivationEmail(context.Background(), sender, "  ", msg, nil))
	waitFor(t, SendActivationEmail(context.Background(), nil, "a@example.com", msg, nil))
	waitFor(t, SendActivationEmail(context.Background(), sender, "a@example.com", Message{}, nil))

	if atomic.LoadInt32(&sender.sendCalls) != 0 {
		t.Fatalf("expected no send calls, got %d", atomic.LoadInt32(&sender.sendCalls))
	}
}

func TestSendActivationEmail_ErrorIsSwallowed(t *testing.T) {
	sender := &fakeEmailSender{err: errors.New("throttled")}
	wg := SendActivationEmail(context.Background(), sender, "a@example.com", BuildActivationEmail(ActivationDetails{}), nil)
	waitFor(t, wg)

	if atomic.LoadInt32(&sender.sendCalls) != 1 {
		t.Fatalf("expected one send call, got %d", atomic.LoadInt32(&sender.sendCalls))
	}
}

func TestBuildActivationEmail(t *testing.T) {
	msg := BuildActivationEmail(ActivationDetails{
		Name:     "Max",
		ClubName: "TV Musterstadt",
		LoginURL: "https://platz.example.com/login",
	})

	if !strings.HasPrefix(msg.Body, "Hallo Max,") {
		t.Fatalf("unexpected greeting: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "https://platz.example.com/login") {
		t.Fatalf("missing login link: %q", msg.Body)
	}

	anon := BuildActivationEmail(ActivationDetails{})
	if !strings.HasPrefix(anon.Body, "Hallo,") || !strings.Contains(anon.Subject, "deinem Tennisverein") {
		t.Fatalf("unexpected fallback message %+v", anon)
	}
}
