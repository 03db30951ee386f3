package dispatch

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/parleyhq/parley/internal/agent"
	"github.com/parleyhq/parley/internal/models"
	"github.com/parleyhq/parley/internal/store"
	"github.com/parleyhq/parley/internal/transcript"
)

// stubExecutor is a canned agent.Executor recording its inputs.
type stubExecutor struct {
	text    string
	err     error
	calls   int
	history []transcript.Entry
	prompt  transcript.Entry
}

func (s *stubExecutor) Execute(ctx context.Context, history []transcript.Entry, prompt transcript.Entry) (string, error) {
	s.calls++
	s.history = history
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Bot{}, &models.Conversation{},
		&models.Participant{}, &models.Message{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture seeds a user, an active bot, and a conversation.
type fixture struct {
	db   *gorm.DB
	user *models.User
	bot  *models.Bot
	conv *models.Conversation
	exec *stubExecutor
	resp *Responder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)

	user, err := store.CreateUser(db, "alice@example.com", "alice", "Alice", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	bot, err := store.CreateBot(db, store.BotCreate{
		Name:         "assistant_bot",
		DisplayName:  "Assistant",
		SystemPrompt: "You are helpful.",
		IsPublic:     true,
		AutoTrigger:  true,
		APIKey:       "sk-test",
		CreatedByID:  user.ID,
	})
	if err != nil {
		t.Fatalf("seed bot: %v", err)
	}
	conv, err := store.CreateConversation(db, "general", "", user.ID)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	exec := &stubExecutor{text: "Here to help!"}
	invoker := agent.NewInvoker(agent.InvokerOpts{
		Construct: func(*models.Bot) (agent.Executor, error) { return exec, nil },
	})
	resp, err := NewResponder(ResponderOpts{DB: db, Invoker: invoker})
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}
	return &fixture{db: db, user: user, bot: bot, conv: conv, exec: exec, resp: resp}
}

// sendUserMessage persists a human message with a deterministic timestamp.
func (f *fixture) sendUserMessage(t *testing.T, content string, offset int) *models.Message {
	t.Helper()
	msg, err := store.CreateUserMessage(f.db, f.conv.ID, f.user.ID, content)
	if err != nil {
		t.Fatalf("send %q: %v", content, err)
	}
	f.db.Model(msg).Update("created_at", time.Now().Add(time.Duration(offset)*time.Second))
	return msg
}

func TestHandleMessage_EndToEnd(t *testing.T) {
	f := newFixture(t)

	for i := 1; i <= 11; i++ {
		f.sendUserMessage(t, fmt.Sprintf("prior message %d", i), i)
	}
	triggering := f.sendUserMessage(t, "hey @assistant, what's next?", 12)

	reply, err := f.resp.HandleMessage(context.Background(), triggering)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("expected a bot reply")
	}
	if !reply.FromBot() || *reply.SenderBotID != f.bot.ID {
		t.Errorf("reply sender = %+v, want bot %d", reply, f.bot.ID)
	}
	if reply.Content == "" {
		t.Error("reply content is empty")
	}
	if reply.ConversationID != f.conv.ID {
		t.Errorf("reply conversation = %d", reply.ConversationID)
	}

	// The triggering human message is unchanged and still persisted.
	saved, err := store.GetMessage(f.db, triggering.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if saved.Content != "hey @assistant, what's next?" {
		t.Errorf("human message mutated: %q", saved.Content)
	}

	// Exactly one bot message exists.
	var count int64
	f.db.Model(&models.Message{}).Where("sender_bot_id IS NOT NULL").Count(&count)
	if count != 1 {
		t.Errorf("bot messages = %d, want 1", count)
	}

	// Replies carry no transcript blob; their turns live as message rows.
	if reply.BotTranscript != "" {
		t.Errorf("reply transcript = %q, want empty", reply.BotTranscript)
	}

	// The executor saw the system prompt first and the new message last.
	if len(f.exec.history) == 0 || f.exec.history[0].Kind != transcript.KindSystem {
		t.Errorf("history head = %+v, want system prompt", f.exec.history)
	}
	if f.exec.prompt.Text != "hey @assistant, what's next?" {
		t.Errorf("prompt = %+v", f.exec.prompt)
	}
}

func TestHandleMessage_ConsecutiveExchangesNoDuplication(t *testing.T) {
	f := newFixture(t)

	// The reply's created_at is real time, so the questions straddle it.
	first := f.sendUserMessage(t, "@assistant first question", -10)
	if _, err := f.resp.HandleMessage(context.Background(), first); err != nil {
		t.Fatalf("first exchange: %v", err)
	}

	second := f.sendUserMessage(t, "@assistant second question", 10)
	if _, err := f.resp.HandleMessage(context.Background(), second); err != nil {
		t.Fatalf("second exchange: %v", err)
	}

	// The second call's history holds each turn exactly once, in order:
	// system prompt, first question, first reply.
	var systems int
	seen := make(map[string]int)
	for _, e := range f.exec.history {
		if e.Kind == transcript.KindSystem {
			systems++
		}
		seen[e.Kind+"|"+e.Text]++
	}
	if systems != 1 {
		t.Errorf("system entries = %d, want 1", systems)
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("entry %q appears %d times", key, n)
		}
	}

	want := []transcript.Entry{
		transcript.System("You are helpful."),
		transcript.User("@assistant first question"),
		transcript.Assistant("Here to help!"),
	}
	if len(f.exec.history) != len(want) {
		t.Fatalf("history = %+v, want %+v", f.exec.history, want)
	}
	for i := range want {
		if f.exec.history[i] != want[i] {
			t.Errorf("history[%d] = %+v, want %+v", i, f.exec.history[i], want[i])
		}
	}
	if f.exec.prompt.Text != "@assistant second question" {
		t.Errorf("prompt = %+v", f.exec.prompt)
	}
}

func TestHandleMessage_NoTriggerNoReply(t *testing.T) {
	f := newFixture(t)
	msg := f.sendUserMessage(t, "just chatting with nobody", 1)

	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != nil {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if f.exec.calls != 0 {
		t.Errorf("executor called %d times", f.exec.calls)
	}
}

func TestHandleMessage_BotMessageNeverTriggers(t *testing.T) {
	f := newFixture(t)

	botMsg, err := store.CreateBotMessage(f.db, f.conv.ID, f.bot.ID, "ping @assistant", "")
	if err != nil {
		t.Fatalf("CreateBotMessage: %v", err)
	}

	reply, err := f.resp.HandleMessage(context.Background(), botMsg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != nil {
		t.Fatal("bot message produced a bot reply")
	}

	var count int64
	f.db.Model(&models.Message{}).Where("sender_bot_id IS NOT NULL").Count(&count)
	if count != 1 {
		t.Errorf("bot messages = %d, want only the original", count)
	}
}

func TestHandleMessage_NoActiveBotFailsSoft(t *testing.T) {
	f := newFixture(t)
	if err := store.DeactivateBot(f.db, f.bot.ID, f.user.ID); err != nil {
		t.Fatalf("DeactivateBot: %v", err)
	}

	msg := f.sendUserMessage(t, "@assistant hello?", 1)
	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage must fail soft: %v", err)
	}
	if reply != nil {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestHandleMessage_AutoTriggerOff(t *testing.T) {
	f := newFixture(t)
	off := false
	if _, err := store.UpdateBot(f.db, f.bot.ID, f.user.ID, store.BotUpdate{AutoTrigger: &off}); err != nil {
		t.Fatalf("UpdateBot: %v", err)
	}

	msg := f.sendUserMessage(t, "@assistant hello?", 1)
	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != nil {
		t.Error("bot with auto_trigger off replied to a keyword mention")
	}

	// Addressing the bot by its exact name overrides auto_trigger.
	addressed := f.sendUserMessage(t, "@assistant_bot hello?", 2)
	reply, err = f.resp.HandleMessage(context.Background(), addressed)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("exact-name mention did not override auto_trigger")
	}
	if *reply.SenderBotID != f.bot.ID {
		t.Errorf("reply from bot %d, want %d", *reply.SenderBotID, f.bot.ID)
	}
}

func TestHandleMessage_ExecutionFailureStillReplies(t *testing.T) {
	f := newFixture(t)
	f.exec.err = fmt.Errorf("provider exploded")

	msg := f.sendUserMessage(t, "@assistant help", 1)
	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("triggered turn was silently dropped")
	}
	if !strings.Contains(reply.Content, "Assistant") {
		t.Errorf("apology %q does not name the bot", reply.Content)
	}
}

func TestHandleMessage_ConstructionFailureStillReplies(t *testing.T) {
	db := testDB(t)
	user, _ := store.CreateUser(db, "a@example.com", "alice", "Alice", "x")
	_, err := store.CreateBot(db, store.BotCreate{
		Name: "assistant_bot", DisplayName: "Assistant", AutoTrigger: true, CreatedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	conv, _ := store.CreateConversation(db, "general", "", user.ID)

	invoker := agent.NewInvoker(agent.InvokerOpts{
		Construct: func(*models.Bot) (agent.Executor, error) { return nil, fmt.Errorf("bad credentials") },
	})
	resp, err := NewResponder(ResponderOpts{DB: db, Invoker: invoker})
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}

	msg, err := store.CreateUserMessage(db, conv.ID, user.ID, "@assistant are you there?")
	if err != nil {
		t.Fatalf("CreateUserMessage: %v", err)
	}
	reply, err := resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("expected placeholder reply")
	}
	if !strings.Contains(reply.Content, "Assistant") || !strings.Contains(reply.Content, "are you there?") {
		t.Errorf("placeholder = %q", reply.Content)
	}
}

func TestHandleMessage_CancelledContextPersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.exec.err = context.Canceled

	msg := f.sendUserMessage(t, "@assistant help", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.resp.HandleMessage(ctx, msg); err == nil {
		t.Fatal("expected cancellation error")
	}

	var count int64
	f.db.Model(&models.Message{}).Where("sender_bot_id IS NOT NULL").Count(&count)
	if count != 0 {
		t.Errorf("bot messages = %d, want 0 after cancellation", count)
	}
}

func TestHandleMessage_SelectsLowestBotID(t *testing.T) {
	f := newFixture(t)
	second, err := store.CreateBot(f.db, store.BotCreate{
		Name: "second_bot", DisplayName: "Second", AutoTrigger: true, APIKey: "sk", CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	msg := f.sendUserMessage(t, "@assistant pick one", 1)
	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("expected reply")
	}
	if *reply.SenderBotID != f.bot.ID {
		t.Errorf("selected bot %d, want lowest ID %d (not %d)", *reply.SenderBotID, f.bot.ID, second.ID)
	}
}

func TestHandleMessage_ExactMentionTargetsBot(t *testing.T) {
	f := newFixture(t)
	second, err := store.CreateBot(f.db, store.BotCreate{
		Name: "second_bot", DisplayName: "Second", AutoTrigger: true, APIKey: "sk", CreatedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	msg := f.sendUserMessage(t, "@second_bot you specifically", 1)
	reply, err := f.resp.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply == nil {
		t.Fatal("expected reply")
	}
	if *reply.SenderBotID != second.ID {
		t.Errorf("selected bot %d, want named bot %d", *reply.SenderBotID, second.ID)
	}
}

func TestHandleMessage_SplicesForwardedHistory(t *testing.T) {
	f := newFixture(t)

	blob, err := transcript.Encode([]transcript.Entry{
		transcript.User("old question"),
		transcript.Assistant("old answer"),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := store.CreateBotMessage(f.db, f.conv.ID, f.bot.ID, "old answer", blob); err != nil {
		t.Fatalf("CreateBotMessage: %v", err)
	}

	msg := f.sendUserMessage(t, "@assistant continue", 5)
	if _, err := f.resp.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	var texts []string
	for _, e := range f.exec.history {
		texts = append(texts, e.Text)
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "old question") || !strings.Contains(joined, "old answer") {
		t.Errorf("forwarded history not spliced: %v", texts)
	}
}
