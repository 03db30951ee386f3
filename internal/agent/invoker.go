package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/parleyhq/parley/internal/models"
	"github.com/parleyhq/parley/internal/transcript"
)

// DefaultRequestTimeout bounds a single language-model call.
const DefaultRequestTimeout = 60 * time.Second

// Constructor builds an Executor for a bot. Swapped out in tests.
type Constructor func(bot *models.Bot) (Executor, error)

// cachedAgent is one cache slot. A construction failure is cached too: the
// slot degrades to unavailable and is never retried until process restart.
type cachedAgent struct {
	exec        Executor
	unavailable bool
}

// InvokerOpts holds parameters for creating an Invoker.
type InvokerOpts struct {
	Condenser *Condenser    // optional; nil disables condensing
	Construct Constructor   // optional; defaults to provider-backed construction
	Timeout   time.Duration // per-call budget; defaults to DefaultRequestTimeout
	CacheSize int           // agent cache capacity; 0 = unbounded
}

// Invoker executes agents against built context sequences. Agents are
// cached per bot+model key; construction happens at most once per key
// (first-write wins, serialized under the invoker lock).
type Invoker struct {
	mu        sync.Mutex
	cache     *lruCache
	condenser *Condenser
	construct Constructor
	timeout   time.Duration
}

// NewInvoker creates an Invoker.
func NewInvoker(opts InvokerOpts) *Invoker {
	construct := opts.Construct
	if construct == nil {
		construct = buildExecutor
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Invoker{
		cache:     newLRU(opts.CacheSize),
		condenser: opts.Condenser,
		construct: construct,
		timeout:   timeout,
	}
}

// buildExecutor wires the production chat executor from bot configuration.
func buildExecutor(bot *models.Bot) (Executor, error) {
	provider, err := ProviderFromBot(bot)
	if err != nil {
		return nil, err
	}
	return &chatExecutor{
		client:      NewClient(provider),
		model:       bot.ModelName,
		temperature: bot.LogicalTemperature(),
		maxTokens:   bot.MaxTokens,
	}, nil
}

// cacheKey identifies an agent by bot identity and model.
func cacheKey(bot *models.Bot) string {
	return fmt.Sprintf("%d_%s", bot.ID, bot.ModelName)
}

// agentFor returns the cached agent for a bot, constructing it on first use.
func (i *Invoker) agentFor(bot *models.Bot) *cachedAgent {
	i.mu.Lock()
	defer i.mu.Unlock()

	key := cacheKey(bot)
	if v, ok := i.cache.get(key); ok {
		return v.(*cachedAgent)
	}

	exec, err := i.construct(bot)
	slot := &cachedAgent{exec: exec}
	if err != nil {
		log.Printf("agent: construct for bot %s (%s): %v", bot.Name, bot.ModelName, err)
		slot = &cachedAgent{unavailable: true}
	}
	i.cache.put(key, slot)
	return slot
}

// Respond executes the bot's agent against a built context sequence. The
// last entry is the current turn; everything before it is history. The
// condenser runs first as a pre-execution hook.
//
// Respond never propagates provider errors: an unavailable agent yields a
// placeholder embedding the bot's display name and an echo of the last user
// entry, and an execution failure yields an apology naming the bot. The only
// error returns are caller misuse (empty sequence) and caller cancellation,
// so an abandoned request never turns into a persisted reply.
func (i *Invoker) Respond(ctx context.Context, bot *models.Bot, entries []transcript.Entry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("agent: respond: empty context sequence")
	}

	agent := i.agentFor(bot)
	if agent.unavailable {
		return placeholderResponse(bot, entries), nil
	}

	if i.condenser != nil {
		entries = i.condenser.Condense(ctx, entries)
	}

	prompt := entries[len(entries)-1]
	history := entries[:len(entries)-1]

	callCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	text, err := agent.exec.Execute(callCtx, history, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("agent: execute for bot %s: %v", bot.Name, err)
		return apologyResponse(bot), nil
	}
	return text, nil
}

// placeholderResponse stands in when the agent could not be constructed.
func placeholderResponse(bot *models.Bot, entries []transcript.Entry) string {
	lastText := ""
	for j := len(entries) - 1; j >= 0; j-- {
		if entries[j].Kind == transcript.KindUser {
			lastText = entries[j].Text
			break
		}
	}
	return fmt.Sprintf("I'm %s! I understand you said: %q. I can't reach my language model right now, but your message was received.", bot.DisplayName, lastText)
}

// apologyResponse stands in when execution failed.
func apologyResponse(bot *models.Bot) string {
	return fmt.Sprintf("I apologize, but %s ran into a problem generating a response. Please try again.", bot.DisplayName)
}
