// Package chat implements the conversational profile filler. The
// controller owns the slot-filling state machine: code decides which field
// is collected next and whether an answer fills it; the text generator is
// only asked to phrase questions and extract candidate values.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/llm"
	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/profile"
	"github.com/furkancam7/lifeplan/internal/store"
)

// Reply is the controller's answer to one chat turn.
type Reply struct {
	Message  string `json:"message"`
	Asking   string `json:"asking,omitempty"`  // field currently being collected
	Updated  string `json:"updated,omitempty"` // field committed this turn
	Complete bool   `json:"complete"`
}

// Controller drives one slot-filling conversation per session.
type Controller struct {
	profiles store.ProfileStore
	gen      llm.Generator
	logger   logging.Logger

	mu     sync.Mutex
	states map[string]*state
}

type state struct {
	awaiting string
	pending  *pendingUpdate
}

// pendingUpdate is an overwrite of an already-filled field waiting for the
// user's confirmation.
type pendingUpdate struct {
	field string
	value any
	label string
}

// NewController constructs the profile filler.
func NewController(profiles store.ProfileStore, gen llm.Generator, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		profiles: profiles,
		gen:      gen,
		logger:   logger.Named("chat"),
		states:   map[string]*state{},
	}
}

// Start opens the conversation for a fresh session: greet and ask for the
// first missing field, or welcome a complete profile back.
func (c *Controller) Start(ctx context.Context, sess auth.Session) (Reply, error) {
	p, err := c.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Reply{}, fmt.Errorf("load profile: %w", err)
	}

	missing := profile.Missing(p)
	if len(missing) == 0 {
		return Reply{
			Message:  fmt.Sprintf("Welcome back, %s. Your profile is complete; ask me anything or request a report.", sess.Name),
			Complete: true,
		}, nil
	}

	slot := missing[0]
	c.setAwaiting(sess.Token, slot.Field)
	question := c.phraseQuestion(ctx, p, slot)
	return Reply{
		Message: fmt.Sprintf("Hi %s! I'll help you complete your profile. %s", sess.Name, question),
		Asking:  slot.Field,
	}, nil
}

// Message handles one user turn.
func (c *Controller) Message(ctx context.Context, sess auth.Session, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{Message: "I didn't catch that, could you say it again?"}, nil
	}
	if refusal, refused := refuse(text); refused {
		return Reply{Message: refusal}, nil
	}

	st := c.state(sess.Token)

	if st.pending != nil {
		return c.resolvePending(ctx, sess, st, text)
	}

	p, err := c.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Reply{}, fmt.Errorf("load profile: %w", err)
	}

	missing := profile.Missing(p)
	if len(missing) == 0 {
		return c.answerFreeform(ctx, sess, p, st, text)
	}

	slot := missing[0]
	if st.awaiting != "" {
		if s, ok := profile.SlotByField(st.awaiting); ok && !s.Filled(p) {
			slot = s
		}
	}

	value, err := c.extract(ctx, slot, text)
	if err != nil {
		c.logger.Debug("extraction failed for %s: %v", slot.Field, err)
		c.setAwaiting(sess.Token, slot.Field)
		return Reply{
			Message: fmt.Sprintf("Sorry, I couldn't read your %s from that. %s", slot.Label, slot.Prompt),
			Asking:  slot.Field,
		}, nil
	}

	if err := c.commit(ctx, sess.Email, slot.Field, value); err != nil {
		// Validation happens in the store's merge; a rejected value means
		// the answer didn't fit the field, so ask again.
		c.logger.Debug("commit rejected for %s: %v", slot.Field, err)
		c.setAwaiting(sess.Token, slot.Field)
		return Reply{
			Message: fmt.Sprintf("That doesn't look like a valid %s. %s", slot.Label, slot.Prompt),
			Asking:  slot.Field,
		}, nil
	}

	updated, err := c.profiles.GetUser(ctx, sess.Email)
	if err != nil {
		return Reply{}, fmt.Errorf("reload profile: %w", err)
	}
	remaining := profile.Missing(updated)
	if len(remaining) == 0 {
		c.setAwaiting(sess.Token, "")
		return Reply{
			Message:  "That completes your profile, congratulations! You can now generate your retirement, health-cost and longevity reports.",
			Updated:  slot.Field,
			Complete: true,
		}, nil
	}

	next := remaining[0]
	c.setAwaiting(sess.Token, next.Field)
	return Reply{
		Message: fmt.Sprintf("Got it, %s recorded. %s", slot.Label, c.phraseQuestion(ctx, updated, next)),
		Asking:  next.Field,
		Updated: slot.Field,
	}, nil
}

// resolvePending commits or discards a confirmed overwrite.
func (c *Controller) resolvePending(ctx context.Context, sess auth.Session, st *state, text string) (Reply, error) {
	pending := st.pending
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "y"), strings.Contains(lower, "confirm"):
		c.clearPending(sess.Token)
		if err := c.commit(ctx, sess.Email, pending.field, pending.value); err != nil {
			return Reply{}, err
		}
		return Reply{
			Message:  fmt.Sprintf("Done, your %s has been updated.", pending.label),
			Updated:  pending.field,
			Complete: true,
		}, nil
	case strings.HasPrefix(lower, "n"), strings.Contains(lower, "cancel"):
		c.clearPending(sess.Token)
		return Reply{Message: fmt.Sprintf("Okay, I'll leave your %s as it is.", pending.label), Complete: true}, nil
	default:
		return Reply{
			Message: fmt.Sprintf("Should I update your %s? Please answer yes or no.", pending.label),
		}, nil
	}
}

// answerFreeform handles turns after the profile is complete: explicit
// change requests go through confirmation, everything else is a contextual
// answer.
func (c *Controller) answerFreeform(ctx context.Context, sess auth.Session, p *profile.Profile, st *state, text string) (Reply, error) {
	if slot, ok := updateIntent(text); ok {
		value, err := c.extract(ctx, slot, text)
		if err == nil {
			c.setPending(sess.Token, &pendingUpdate{field: slot.Field, value: value, label: slot.Label})
			return Reply{
				Message:  fmt.Sprintf("You'd like to change your %s. Shall I update it? (yes/no)", slot.Label),
				Complete: true,
			}, nil
		}
		return Reply{
			Message:  fmt.Sprintf("What should your new %s be?", slot.Label),
			Complete: true,
		}, nil
	}

	prompt := fmt.Sprintf(
		"You are a personal finance and health planning assistant. Answer briefly and helpfully.\nUser profile summary: %s\nUser message: %s",
		summarize(p), text)
	answer, err := c.gen.Generate(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 512})
	if err != nil {
		c.logger.Warn("freeform answer degraded: %v", err)
		answer = "Your profile is complete. You can generate retirement, health-cost and longevity reports, or update a field by telling me what changed."
	}
	return Reply{Message: answer, Complete: true}, nil
}

func (c *Controller) commit(ctx context.Context, email, field string, value any) error {
	if err := c.profiles.UpdateUser(ctx, email, map[string]any{field: value}); err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	return nil
}

// extract pulls a candidate value for the slot out of the user's message.
// The text generator proposes, ParseAnswer validates; when the generator is
// unavailable the raw message is parsed directly.
func (c *Controller) extract(ctx context.Context, slot profile.Slot, text string) (any, error) {
	prompt := fmt.Sprintf(
		"Extract the user's %s from the message below. Reply with JSON only, no prose: {\"found\": true/false, \"value\": \"<extracted value>\"}.\nMessage: %q",
		slot.Label, text)
	raw, err := c.gen.Generate(ctx, prompt, llm.Options{Temperature: 0, MaxTokens: 128})
	if err == nil {
		if value, perr := parseExtraction(slot, raw); perr == nil {
			return value, nil
		}
	}
	return slot.ParseAnswer(text)
}

func (c *Controller) state(token string) *state {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[token]
	if !ok {
		st = &state{}
		c.states[token] = st
	}
	return st
}

func (c *Controller) setAwaiting(token, field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[token]
	if !ok {
		st = &state{}
		c.states[token] = st
	}
	st.awaiting = field
}

func (c *Controller) setPending(token string, pending *pendingUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[token]
	if !ok {
		st = &state{}
		c.states[token] = st
	}
	st.pending = pending
}

func (c *Controller) clearPending(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[token]; ok {
		st.pending = nil
	}
}

// Forget drops conversation state, typically on logout.
func (c *Controller) Forget(token string) {
	c.mu.Lock()
	delete(c.states, token)
	c.mu.Unlock()
}

// phraseQuestion asks the generator to word the next question; the static
// prompt text is the fallback so filling always proceeds.
func (c *Controller) phraseQuestion(ctx context.Context, p *profile.Profile, slot profile.Slot) string {
	prompt := fmt.Sprintf(
		"Phrase a single short friendly question asking the user for their %s. Reply with the question only.",
		slot.Label)
	question, err := c.gen.Generate(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 64})
	if err != nil || strings.TrimSpace(question) == "" {
		c.logger.Debug("question phrasing degraded for %s: %v", slot.Field, err)
		return slot.Prompt
	}
	return strings.TrimSpace(question)
}

// refuse blocks operations that are never performed through chat.
func refuse(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "password") {
		return "I can't change or reveal passwords here. Please use the account settings instead.", true
	}
	if strings.Contains(lower, "delete") &&
		(strings.Contains(lower, "account") || strings.Contains(lower, "profile") || strings.Contains(lower, "data")) {
		return "Profile data is never deleted from here. If you want a field changed, just tell me the new value.", true
	}
	if strings.Contains(lower, "another user") || strings.Contains(lower, "other user") ||
		strings.Contains(lower, "someone else's") {
		return "I can only work with your own profile.", true
	}
	return "", false
}

// updateIntent detects "change my X" style requests against slot labels.
func updateIntent(text string) (profile.Slot, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "change") && !strings.Contains(lower, "update") &&
		!strings.Contains(lower, "set my") && !strings.Contains(lower, "correct") {
		return profile.Slot{}, false
	}
	for _, slot := range profile.Slots {
		if strings.Contains(lower, slot.Label) {
			return slot, true
		}
	}
	return profile.Slot{}, false
}

func summarize(p *profile.Profile) string {
	return fmt.Sprintf(
		"age %d, gender %s, location %s, monthly income %.0f, monthly expenses %.0f, target retirement age %d, target retirement income %.0f",
		p.Age, p.Gender, p.Location, p.MonthlyIncome, p.MonthlyExpenses, p.TargetRetirementAge, p.TargetRetirementIncome)
}
