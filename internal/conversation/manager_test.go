package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// stubResponder returns canned results, optionally blocking until released.
type stubResponder struct {
	mu      sync.Mutex
	result  intent.Result
	err     error
	gate    chan struct{} // when set, Respond blocks until closed or ctx done
	history []models.Turn
}

func (s *stubResponder) Respond(ctx context.Context, prompt string, history []models.Turn, att *models.Attachment) (intent.Result, error) {
	s.mu.Lock()
	s.history = history
	gate := s.gate
	result, err := s.result, s.err
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return intent.Result{}, ctx.Err()
		}
	}
	return result, err
}

// echoResponder answers each prompt with its own echo. Prompts listed in
// gates block until their channel is closed or the context is cancelled.
type echoResponder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (e *echoResponder) Respond(ctx context.Context, prompt string, history []models.Turn, att *models.Attachment) (intent.Result, error) {
	e.mu.Lock()
	gate := e.gates[prompt]
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return intent.Result{}, ctx.Err()
		}
	}
	return okResult("echo: " + prompt), nil
}

// stubEncoder returns a fixed attachment or error without touching the disk.
type stubEncoder struct {
	att *models.Attachment
	err error
}

func (s stubEncoder) Encode(ctx context.Context, path string) (*models.Attachment, error) {
	return s.att, s.err
}

type recordingArchiver struct {
	mu    sync.Mutex
	saved [][]models.Turn
}

func (a *recordingArchiver) SaveTranscript(ctx context.Context, turns []models.Turn) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, turns)
	return nil
}

func testManager(t *testing.T, responder Responder, cfg ManagerConfig) *Manager {
	t.Helper()
	if cfg.Encoder == nil {
		cfg.Encoder = stubEncoder{att: &models.Attachment{Data: "ZGF0YQ==", MimeType: "text/plain"}}
	}
	logger := slog.New(slog.DiscardHandler)
	return NewManager(NewStore(), responder, logger, cfg)
}

// waitIdle polls until no request is in flight.
func waitIdle(t *testing.T, m *Manager) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !m.Store().Busy() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("manager never became idle")
}

func okResult(text string) intent.Result {
	return intent.Result{
		Text: text,
		Tool: &models.ToolCall{Name: intent.ToolShowGenericInfo, Payload: map[string]any{}},
	}
}

func TestSendRejectsEmptyInput(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("hi")}, ManagerConfig{})

	_, err := m.Send(context.Background(), "", "")
	if !errors.Is(err, ErrEmptySend) {
		t.Fatalf("err = %v, want ErrEmptySend", err)
	}
	if len(m.Store().Turns()) != 0 {
		t.Error("rejected send must append nothing")
	}
}

func TestSendAppendsUserAndPlaceholder(t *testing.T) {
	responder := &stubResponder{gate: make(chan struct{}), result: okResult("done")}
	m := testManager(t, responder, ManagerConfig{})

	_, err := m.Send(context.Background(), "hello", "")
	if err != nil {
		t.Fatal(err)
	}

	turns := m.Store().Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Sender != models.SenderUser || turns[0].Text != "hello" {
		t.Errorf("user turn wrong: %+v", turns[0])
	}
	if turns[1].Sender != models.SenderAgent || !turns[1].Pending() {
		t.Errorf("placeholder wrong: %+v", turns[1])
	}

	close(responder.gate)
	waitIdle(t, m)
}

func TestSendResolvesPlaceholder(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("the answer")}, ManagerConfig{})

	if _, err := m.Send(context.Background(), "question", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	turns := m.Store().Turns()
	agent := turns[1]
	if agent.Text != "the answer" {
		t.Errorf("agent text = %q", agent.Text)
	}
	if agent.Tool == nil {
		t.Error("agent turn should carry the tool call")
	}
	if agent.Error != "" {
		t.Errorf("unexpected error: %s", agent.Error)
	}
}

func TestSendHistoryIncludesUserTurnNotPlaceholder(t *testing.T) {
	responder := &stubResponder{result: okResult("ok")}
	m := testManager(t, responder, ManagerConfig{})

	if _, err := m.Send(context.Background(), "first", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	responder.mu.Lock()
	history := responder.history
	responder.mu.Unlock()

	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1 (user turn only)", len(history))
	}
	if history[0].Text != "first" {
		t.Errorf("history[0] = %q", history[0].Text)
	}
}

func TestAttachmentOnlySendUsesFallbackText(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{})

	if _, err := m.Send(context.Background(), "", "/tmp/photo.jpg"); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	turns := m.Store().Turns()
	if turns[0].Text != attachmentFallbackText {
		t.Errorf("user turn text = %q, want %q", turns[0].Text, attachmentFallbackText)
	}
	if turns[0].ImageURL != "/tmp/photo.jpg" {
		t.Errorf("user turn image = %q", turns[0].ImageURL)
	}
}

func TestAttachmentEncodeFailureBecomesTurnError(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{
		Encoder: stubEncoder{err: errors.New("file too large")},
	})

	if _, err := m.Send(context.Background(), "look at this", "/tmp/huge.bin"); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	agent := m.Store().Turns()[1]
	if !strings.Contains(agent.Error, "Attachment could not be processed") {
		t.Errorf("agent error = %q", agent.Error)
	}
	if agent.Text != "" || agent.Tool != nil {
		t.Error("failed turn must not carry text or tool")
	}
}

func TestResponderErrorBecomesTurnError(t *testing.T) {
	m := testManager(t, &stubResponder{err: errors.New("backend down")}, ManagerConfig{})

	if _, err := m.Send(context.Background(), "hello", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	agent := m.Store().Turns()[1]
	if !strings.Contains(agent.Error, "Failed to generate a response") {
		t.Errorf("agent error = %q", agent.Error)
	}
}

func TestCancelPatchesTargetTurn(t *testing.T) {
	responder := &stubResponder{gate: make(chan struct{}), result: okResult("late")}
	m := testManager(t, responder, ManagerConfig{})

	reqID, err := m.Send(context.Background(), "slow question", "")
	if err != nil {
		t.Fatal(err)
	}

	m.Cancel(reqID)
	waitIdle(t, m)

	agent := m.Store().Turns()[1]
	if agent.Error != cancelledMessage {
		t.Errorf("agent error = %q, want %q", agent.Error, cancelledMessage)
	}

	// Releasing the responder later must not overwrite the cancellation.
	close(responder.gate)
	time.Sleep(20 * time.Millisecond)
	agent = m.Store().Turns()[1]
	if agent.Text != "" || agent.Error != cancelledMessage {
		t.Error("late resolution overwrote a cancelled turn")
	}
}

func TestCancelAfterSettleIsNoOp(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("fast")}, ManagerConfig{})

	reqID, err := m.Send(context.Background(), "quick", "")
	if err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	m.Cancel(reqID) // already settled and removed

	agent := m.Store().Turns()[1]
	if agent.Text != "fast" || agent.Error != "" {
		t.Errorf("cancel after settle mutated the turn: %+v", agent)
	}
}

func TestCancelUnknownRequestIsNoOp(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{})
	m.Cancel("not-a-request")
}

func TestConcurrentSendsResolveIndependently(t *testing.T) {
	// The first send is held until the second has resolved, so completions
	// arrive in reverse send order. Each placeholder must still receive its
	// own prompt's echo.
	firstGate := make(chan struct{})
	responder := &echoResponder{gates: map[string]chan struct{}{"first": firstGate}}
	m := testManager(t, responder, ManagerConfig{})

	if _, err := m.Send(context.Background(), "first", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Send(context.Background(), "second", ""); err != nil {
		t.Fatal(err)
	}

	// Wait for the second send to resolve while the first is still held.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		turns := m.Store().Turns()
		if len(turns) == 4 && !turns[3].Pending() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	turns := m.Store().Turns()
	if turns[3].Pending() {
		t.Fatal("second send never resolved")
	}
	if !turns[1].Pending() {
		t.Fatalf("first placeholder settled while gated: %+v", turns[1])
	}
	if turns[3].Text != "echo: second" {
		t.Errorf("second agent turn = %q, want its own echo", turns[3].Text)
	}

	close(firstGate)
	waitIdle(t, m)

	turns = m.Store().Turns()
	if turns[1].Text != "echo: first" {
		t.Errorf("first agent turn = %q, want its own echo", turns[1].Text)
	}
	if turns[3].Text != "echo: second" {
		t.Errorf("second agent turn = %q after release", turns[3].Text)
	}
}

func TestConcurrentSendsKeepPairsAdjacent(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{})

	const workers = 16
	const sendsPerWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < sendsPerWorker; i++ {
				if _, err := m.Send(context.Background(), fmt.Sprintf("w%d-%d", w, i), ""); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	waitIdle(t, m)

	turns := m.Store().Turns()
	if len(turns) != workers*sendsPerWorker*2 {
		t.Fatalf("got %d turns, want %d", len(turns), workers*sendsPerWorker*2)
	}
	// Every user turn is immediately followed by its agent turn, even when
	// sends race from many goroutines.
	for i := 0; i < len(turns); i += 2 {
		if turns[i].Sender != models.SenderUser || turns[i+1].Sender != models.SenderAgent {
			t.Fatalf("turns %d/%d are not a user/agent pair: %s/%s",
				i, i+1, turns[i].Sender, turns[i+1].Sender)
		}
	}
}

func TestConcurrentSendsCancelOnlyTargets(t *testing.T) {
	gated := &stubResponder{gate: make(chan struct{}), result: okResult("slow answer")}
	m := testManager(t, gated, ManagerConfig{})

	req1, err := m.Send(context.Background(), "first", "")
	if err != nil {
		t.Fatal(err)
	}
	req2, err := m.Send(context.Background(), "second", "")
	if err != nil {
		t.Fatal(err)
	}

	m.Cancel(req1)
	close(gated.gate)
	waitIdle(t, m)

	turns := m.Store().Turns()
	// Layout: user1, agent1, user2, agent2.
	if turns[1].Error != cancelledMessage {
		t.Errorf("first agent turn = %+v, want cancelled", turns[1])
	}
	if turns[3].Text != "slow answer" {
		t.Errorf("second agent turn = %+v, want resolved", turns[3])
	}
	_ = req2
}

func TestRetryReusesLastInput(t *testing.T) {
	responder := &stubResponder{result: okResult("ok")}
	m := testManager(t, responder, ManagerConfig{})

	if _, err := m.Send(context.Background(), "original", "/tmp/pic.png"); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	if _, err := m.Retry(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	turns := m.Store().Turns()
	if len(turns) != 4 {
		t.Fatalf("got %d turns, want 4", len(turns))
	}
	if turns[2].Text != "original" || turns[2].ImageURL != "/tmp/pic.png" {
		t.Errorf("retry did not reuse last input: %+v", turns[2])
	}
}

func TestRetryWithoutPriorSend(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{})

	_, err := m.Retry(context.Background())
	if !errors.Is(err, ErrNothingToRetry) {
		t.Fatalf("err = %v, want ErrNothingToRetry", err)
	}
}

func TestRetrySurvivesClear(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{})

	if _, err := m.Send(context.Background(), "before clear", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)
	m.Clear(context.Background())

	if _, err := m.Retry(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	turns := m.Store().Turns()
	if len(turns) != 2 || turns[0].Text != "before clear" {
		t.Errorf("retry after clear: %+v", turns)
	}
}

func TestClearCancelsAndArchives(t *testing.T) {
	archiver := &recordingArchiver{}
	gated := &stubResponder{gate: make(chan struct{}), result: okResult("slow")}
	m := testManager(t, gated, ManagerConfig{Archiver: archiver})

	if _, err := m.Send(context.Background(), "in flight", ""); err != nil {
		t.Fatal(err)
	}

	m.Clear(context.Background())
	close(gated.gate)

	if len(m.Store().Turns()) != 0 {
		t.Error("store should be empty after clear")
	}
	if m.Store().Busy() {
		t.Error("no requests should survive clear")
	}

	archiver.mu.Lock()
	defer archiver.mu.Unlock()
	if len(archiver.saved) != 1 {
		t.Fatalf("archived %d transcripts, want 1", len(archiver.saved))
	}
	// The in-flight turn was cancelled before archiving.
	saved := archiver.saved[0]
	if saved[1].Error != cancelledMessage {
		t.Errorf("archived agent turn = %+v, want cancelled", saved[1])
	}
}

func TestClearOnEmptyStoreSkipsArchiver(t *testing.T) {
	archiver := &recordingArchiver{}
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{Archiver: archiver})

	m.Clear(context.Background())

	archiver.mu.Lock()
	defer archiver.mu.Unlock()
	if len(archiver.saved) != 0 {
		t.Error("empty conversation should not be archived")
	}
}

func TestLatencyBounds(t *testing.T) {
	m := testManager(t, &stubResponder{result: okResult("ok")}, ManagerConfig{
		MinLatency: 10 * time.Millisecond,
		MaxLatency: 30 * time.Millisecond,
	})

	start := time.Now()
	if _, err := m.Send(context.Background(), "timed", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("resolved after %v, before the minimum latency", elapsed)
	}
}

func TestEndToEndFleetScenario(t *testing.T) {
	// Full path with the real rule-based responder.
	m := testManager(t, intent.NewResponder(), ManagerConfig{})

	if _, err := m.Send(context.Background(), "show my fleet", ""); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, m)

	agent := m.Store().Turns()[1]
	if agent.Tool == nil || agent.Tool.Name != intent.ToolViewFleet {
		t.Fatalf("agent tool = %+v, want view_fleet", agent.Tool)
	}
	if len(agent.Tool.SuggestedFollowUps()) != intent.FollowUpCount {
		t.Error("fleet response should carry three follow-ups")
	}
}
