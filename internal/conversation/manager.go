// Package conversation implements the turn lifecycle: the append-only
// conversation store and the manager that turns a user prompt into a
// resolved agent turn, with cancellation and retry semantics.
package conversation

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// Responder computes an agent response for a prompt. The default
// implementation is the rule-based intent classifier; LLM-backed responders
// satisfy the same contract.
type Responder interface {
	Respond(ctx context.Context, prompt string, history []models.Turn, att *models.Attachment) (intent.Result, error)
}

// Archiver persists a finished conversation transcript. Optional.
type Archiver interface {
	SaveTranscript(ctx context.Context, turns []models.Turn) error
}

// ManagerConfig holds optional manager settings.
type ManagerConfig struct {
	// Simulated network latency bounds for each response. Zero values mean
	// no artificial delay (useful in tests).
	MinLatency time.Duration
	MaxLatency time.Duration

	// Encoder converts attachment paths to payloads. Defaults to FileEncoder.
	Encoder AttachmentEncoder

	// Metrics records per-response timings when set.
	Metrics *metrics.Collector

	// Archiver saves transcripts on Clear when set.
	Archiver Archiver
}

// Manager orchestrates one request/response cycle per send: it appends the
// user turn and the provisional agent turn, runs the responder behind a
// simulated latency, and resolves the provisional turn exactly once with a
// result, an error, or a cancellation notice. It holds no conversation
// state of its own beyond the last submitted input for Retry.
type Manager struct {
	store     *Store
	responder Responder
	logger    *slog.Logger
	cfg       ManagerConfig

	randMu sync.Mutex
	rand   *rand.Rand

	lastMu         sync.Mutex
	lastPrompt     string
	lastAttachment string
	hasLast        bool
}

// NewManager creates a turn lifecycle manager writing into store.
func NewManager(store *Store, responder Responder, logger *slog.Logger, cfg ManagerConfig) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Encoder == nil {
		cfg.Encoder = FileEncoder{}
	}
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}
	return &Manager{
		store:     store,
		responder: responder,
		logger:    logger,
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Store returns the conversation store the manager writes to.
func (m *Manager) Store() *Store {
	return m.store
}

// Send submits a prompt (and optional attachment path) and starts the
// asynchronous resolution. It returns the request id for cancellation.
//
// A send with neither prompt nor attachment is rejected with ErrEmptySend
// and appends nothing. Concurrent sends are allowed; each resolution is
// correlated strictly by its target turn id, so out-of-order completions
// never patch the wrong turn. Failures of the async path never propagate to
// the caller; they become turn-level errors.
func (m *Manager) Send(ctx context.Context, prompt, attachmentPath string) (string, error) {
	if prompt == "" && attachmentPath == "" {
		return "", ErrEmptySend
	}

	m.lastMu.Lock()
	m.lastPrompt = prompt
	m.lastAttachment = attachmentPath
	m.hasLast = true
	m.lastMu.Unlock()

	text := prompt
	if text == "" {
		text = attachmentFallbackText
	}

	// The user turn, the history snapshot, and the placeholder are written
	// under one store critical section so racing sends cannot interleave
	// between a user turn and its placeholder. The snapshot includes the
	// user turn, not the placeholder; a concurrent earlier send may
	// contribute a still-empty placeholder here and the classifier
	// tolerates those.
	userTurn := models.Turn{
		Sender:    models.SenderUser,
		Text:      text,
		ImageURL:  attachmentPath,
		CreatedAt: time.Now(),
	}
	placeholder := models.Turn{
		Sender:    models.SenderAgent,
		CreatedAt: time.Now(),
	}
	_, placeholder, history := m.store.AppendExchange(userTurn, placeholder)

	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	req := newPendingRequest(uuid.New().String(), placeholder.ID, cancel)
	m.store.AddRequest(req)

	m.logger.Debug("send accepted",
		"request_id", req.ID,
		"target_turn", req.TargetTurnID,
		"prompt_len", len(prompt),
		"attachment", attachmentPath != "",
	)

	go m.resolve(reqCtx, req, prompt, attachmentPath, history)

	return req.ID, nil
}

// Retry re-issues the most recently submitted (prompt, attachment) pair.
func (m *Manager) Retry(ctx context.Context) (string, error) {
	m.lastMu.Lock()
	hasLast := m.hasLast
	prompt := m.lastPrompt
	attachment := m.lastAttachment
	m.lastMu.Unlock()

	if !hasLast {
		return "", ErrNothingToRetry
	}
	return m.Send(ctx, prompt, attachment)
}

// Cancel aborts one in-flight request. The target turn receives a
// cancellation message. Cancelling an unknown or already-settled request id
// is a no-op.
func (m *Manager) Cancel(requestID string) {
	req := m.store.Request(requestID)
	if req == nil {
		return
	}
	if !req.abort() {
		return
	}
	msg := cancelledMessage
	m.store.ResolveTurn(req.TargetTurnID, TurnPatch{Err: &msg})
	m.store.RemoveRequest(req.ID)
	m.logger.Info("request cancelled", "request_id", req.ID, "target_turn", req.TargetTurnID)
}

// CancelAll aborts every in-flight request. Idempotent.
func (m *Manager) CancelAll() {
	for _, req := range m.store.Requests() {
		m.Cancel(req.ID)
	}
}

// Clear ends the current conversation: in-flight requests are cancelled,
// the transcript is archived when an Archiver is configured, and the store
// is reset. Fleet and dealer data live elsewhere and are untouched.
func (m *Manager) Clear(ctx context.Context) {
	m.CancelAll()

	if m.cfg.Archiver != nil {
		if turns := m.store.Turns(); len(turns) > 0 {
			if err := m.cfg.Archiver.SaveTranscript(ctx, turns); err != nil {
				m.logger.Warn("failed to archive transcript", "error", err)
			}
		}
	}

	m.store.Clear()
}

// resolve runs the asynchronous half of one send: attachment encoding, the
// simulated latency wait, the responder call, and the single in-place
// resolution of the target turn.
func (m *Manager) resolve(ctx context.Context, req *PendingRequest, prompt, attachmentPath string, history []models.Turn) {
	var att *models.Attachment
	if attachmentPath != "" {
		encoded, err := m.cfg.Encoder.Encode(ctx, attachmentPath)
		if err != nil {
			m.settleError(req, "Attachment could not be processed: "+err.Error())
			return
		}
		att = encoded
	}

	// The one suspension point per send. Cancellation during the wait skips
	// the mutation entirely; Cancel already patched the turn.
	timer := time.NewTimer(m.latency())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	start := time.Now()
	result, err := m.responder.Respond(ctx, prompt, history, att)
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.RecordTiming(metrics.OpRespond, time.Since(start))
	}
	if err != nil {
		m.settleError(req, "Failed to generate a response: "+err.Error())
		return
	}

	// Abort signal checked once more before mutating the target turn.
	select {
	case <-ctx.Done():
		return
	default:
	}

	if !req.settle() {
		return
	}
	m.store.ResolveTurn(req.TargetTurnID, TurnPatch{Text: &result.Text, Tool: result.Tool})
	m.store.RemoveRequest(req.ID)

	toolName := ""
	if result.Tool != nil {
		toolName = result.Tool.Name
	}
	m.logger.Debug("request resolved", "request_id", req.ID, "tool", toolName)
}

// settleError patches the target turn with a failure description, leaving
// text empty and tool unset.
func (m *Manager) settleError(req *PendingRequest, msg string) {
	if !req.settle() {
		return
	}
	m.store.ResolveTurn(req.TargetTurnID, TurnPatch{Err: &msg})
	m.store.RemoveRequest(req.ID)
	m.logger.Warn("request failed", "request_id", req.ID, "error", msg)
}

// latency picks a uniformly distributed simulated delay.
func (m *Manager) latency() time.Duration {
	if m.cfg.MaxLatency <= m.cfg.MinLatency {
		return m.cfg.MinLatency
	}
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.cfg.MinLatency + time.Duration(m.rand.Int63n(int64(m.cfg.MaxLatency-m.cfg.MinLatency)))
}
