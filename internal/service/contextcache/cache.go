// Package contextcache keeps a TTL'd per-session summary of the conversation
// so follow-up prompts stay small, and owns the deterministic fallback lines
// used when the language model is down. Losing a cache entry only forces a
// full prompt rebuild; it never changes what the simulation does.
package contextcache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
)

// DefaultTTL is how long a cached context stays usable.
const DefaultTTL = 30 * time.Minute

// Rand supplies the randomness for generic fallback selection. Injected so
// tests can pin the pick.
type Rand interface {
	Intn(n int) int
}

type entry struct {
	ctx      simulation.CachedContext
	storedAt time.Time
}

// Cache is a best-effort key/value store of session summaries. Entries for
// different sessions are independent; no cross-session locking is needed
// beyond the map guard.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	rand    Rand
}

// NewCache builds a cache with the given TTL (DefaultTTL when ttl <= 0) and
// randomness source for fallback selection.
func NewCache(ttl time.Duration, rnd Rand) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		rand:    rnd,
	}
}

// Get returns the cached context for a session, or nil when absent or
// expired. Expired entries are dropped on read.
func (c *Cache) Get(sessionID string) *simulation.CachedContext {
	c.mu.RLock()
	e, ok := c.entries[sessionID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	if time.Since(e.storedAt) > c.ttl {
		c.Delete(sessionID)
		return nil
	}

	ctx := e.ctx
	return &ctx
}

// Delete evicts a session's cached context.
func (c *Cache) Delete(sessionID string) {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
}

// Update overwrites the cached context for a session from its current state.
// Called after every exchange.
func (c *Cache) Update(session *simulation.Session, lastAdversaryMessage string) {
	ctx := simulation.CachedContext{
		SessionID:            session.ID,
		CompactHistory:       compactHistory(session.Exchanges),
		CurrentObjective:     inferObjective(session),
		TacticsUsed:          append([]tactic.Tactic(nil), session.TacticsUsed...),
		ExchangeCount:        len(session.Exchanges),
		LastAdversaryMessage: lastAdversaryMessage,
		UpdatedAt:            time.Now().UTC(),
	}
	if last := session.LastExchange(); last != nil {
		ctx.LastTraineeMessage = last.TraineeResponse
	}

	c.mu.Lock()
	c.entries[session.ID] = entry{ctx: ctx, storedAt: time.Now()}
	c.mu.Unlock()
}

// HasReachedTurnLimit reports whether the session has hit the hard turn cap.
func (c *Cache) HasReachedTurnLimit(session *simulation.Session, maxTurns int) bool {
	return len(session.Exchanges) >= maxTurns
}

const (
	fallbackSupervisor = "You know what, this is taking far too long. Put me through to your supervisor, maybe they can actually get this sorted."
	fallbackUrgency    = "I understand this is urgent but we keep going in circles. Let's just finish this one step and we're done."
)

var fallbackPool = []string{
	"Sorry, you cut out there for a second. As I was saying, I just need that one detail to close this out.",
	"Bear with me, the line is bad on my end. Where were we? Right, the account confirmation.",
	"Let me pull that up again... okay. So, can we go ahead with what I asked?",
	"Apologies, my system is slow today. While it loads, can you confirm that for me?",
}

// FallbackResponse returns the canned adversary line substituted whenever the
// language model fails: an escalate-to-supervisor line deep into the call, an
// urgency-flavored line once that tactic is in play, otherwise a random pick
// from the generic pool.
func (c *Cache) FallbackResponse(session *simulation.Session) string {
	if len(session.Exchanges) > 10 {
		return fallbackSupervisor
	}
	if session.HasUsedTactic(tactic.Urgency) {
		return fallbackUrgency
	}
	return fallbackPool[c.rand.Intn(len(fallbackPool))]
}

// compactHistory keeps the three most recent exchanges verbatim (oldest
// first) and folds everything earlier into a single digest sentence.
func compactHistory(exchanges []simulation.Exchange) string {
	if len(exchanges) == 0 {
		return ""
	}

	windowStart := 0
	if len(exchanges) > 3 {
		windowStart = len(exchanges) - 3
	}

	var builder strings.Builder
	if windowStart > 0 {
		earlier := exchanges[:windowStart]
		good := 0
		for _, ex := range earlier {
			if ex.GoodChoice {
				good++
			}
		}
		digest := "was somewhat compliant with"
		if good*2 > len(earlier) {
			digest = "mostly followed"
		}
		builder.WriteString("Earlier in the call (")
		builder.WriteString(strconv.Itoa(len(earlier)))
		builder.WriteString(" exchanges) the trainee ")
		builder.WriteString(digest)
		builder.WriteString(" security protocol.\n")
	}

	for _, ex := range exchanges[windowStart:] {
		builder.WriteString("Caller: ")
		builder.WriteString(ex.AdversaryMessage)
		builder.WriteString("\n")
		if ex.TraineeResponse != "" {
			builder.WriteString("Trainee: ")
			builder.WriteString(ex.TraineeResponse)
			builder.WriteString("\n")
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

// inferObjective derives the caller's current goal from how deep the call is
// and how the trainee has been holding up. The string is embedded in prompts
// to keep the persona coherent without resending full history.
func inferObjective(session *simulation.Session) string {
	count := len(session.Exchanges)
	switch {
	case count <= 3:
		return "establish trust and a sense of urgency"
	case count <= 7:
		choices := session.ChoiceHistory()
		if len(choices) > 3 {
			choices = choices[len(choices)-3:]
		}
		good := 0
		for _, ok := range choices {
			if ok {
				good++
			}
		}
		if good >= 2 {
			return "escalate pressure, the trainee is resisting"
		}
		return "push for the compromise, the trainee is yielding"
	default:
		return "final push or tactical retreat"
	}
}
