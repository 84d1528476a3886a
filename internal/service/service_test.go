package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanagent/internal/agent"
	"humanagent/internal/domain"
	"humanagent/internal/knowledge"
	"humanagent/internal/sessions"
)

type sentMessage struct {
	number string
	text   string
}

type stubSender struct {
	sent []sentMessage
	err  error
}

func (s *stubSender) SendMessage(ctx context.Context, number string, message string) error {
	s.sent = append(s.sent, sentMessage{number: number, text: message})
	return s.err
}

func testChat(t *testing.T, limit int) *ChatService {
	t.Helper()
	base, err := knowledge.Default()
	require.NoError(t, err)
	return NewChatService(agent.New(base), base, sessions.NewStore(limit), zerolog.Nop())
}

func TestChatService_StartSessionAddsIntroOnce(t *testing.T) {
	chat := testChat(t, 0)

	history := chat.StartSession("s1")
	require.Len(t, history, 1)
	assert.Equal(t, "welcome", history[0].ID)
	assert.Equal(t, domain.RoleAgent, history[0].Role)
	require.NotNil(t, history[0].Response)
	assert.Equal(t, domain.ResponseFallback, history[0].Response.Type)
	assert.Equal(t, agent.DefaultSuggestions, history[0].Response.Suggestions)

	assert.Len(t, chat.StartSession("s1"), 1)
}

func TestChatService_Ask(t *testing.T) {
	chat := testChat(t, 0)

	reply, err := chat.Ask("s1", "  Wie funktioniert das Immunsystem?  ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, reply.Role)
	assert.True(t, strings.HasPrefix(reply.ID, "agent-"))
	require.NotNil(t, reply.Response)
	require.True(t, reply.Response.IsAnswer())
	assert.Equal(t, "Das Immunsystem", reply.Response.Entry.Title)
	assert.Equal(t, reply.Response.Answer, reply.Content)

	history, ok := chat.Transcript("s1")
	require.True(t, ok)
	require.Len(t, history, 3)
	assert.Equal(t, "welcome", history[0].ID)
	assert.Equal(t, domain.RoleUser, history[1].Role)
	assert.Equal(t, "Wie funktioniert das Immunsystem?", history[1].Content)
	assert.True(t, strings.HasPrefix(history[1].ID, "user-"))
	assert.Equal(t, reply.ID, history[2].ID)
}

func TestChatService_AskFallback(t *testing.T) {
	chat := testChat(t, 0)

	reply, err := chat.Ask("s1", "xyzabc123 völlig irrelevanter text")
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseFallback, reply.Response.Type)
	assert.Equal(t, agent.DefaultFallbackAnswer, reply.Content)
}

func TestChatService_AskRejectsEmpty(t *testing.T) {
	chat := testChat(t, 0)

	_, err := chat.Ask("s1", " \t ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	_, ok := chat.Transcript("s1")
	assert.False(t, ok)
}

func TestChatService_TranscriptLimit(t *testing.T) {
	chat := testChat(t, 4)
	for i := 0; i < 5; i++ {
		_, err := chat.Ask("s1", "Herz")
		require.NoError(t, err)
	}

	history, _ := chat.Transcript("s1")
	assert.Len(t, history, 4)
}

func TestChatService_Overview(t *testing.T) {
	chat := testChat(t, 0)

	total := 0
	for _, c := range chat.Categories() {
		total += c.Count
	}
	assert.Equal(t, chat.EntryCount(), total)
	assert.Len(t, StarterPrompts, 4)
}

func TestMessageService_MenuWords(t *testing.T) {
	sender := &stubSender{}
	svc := NewMessageService(testChat(t, 0), sender, zerolog.Nop())

	for _, text := range []string{"Menu", "hallo!", "", "Guten Tag"} {
		require.NoError(t, svc.ProcessMessage(context.Background(), "4915100000000", text, "Ana"))
	}

	require.Len(t, sender.sent, 4)
	for _, msg := range sender.sent {
		assert.Equal(t, "4915100000000", msg.number)
		assert.Contains(t, msg.text, "Hallo Ana!")
		assert.Contains(t, msg.text, StarterPrompts[0])
	}
}

func TestMessageService_AnswersQuestion(t *testing.T) {
	sender := &stubSender{}
	chat := testChat(t, 0)
	svc := NewMessageService(chat, sender, zerolog.Nop())

	require.NoError(t, svc.ProcessMessage(context.Background(), "4915100000000", "Was passiert im Tiefschlaf?", "Ana"))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "*Schlaf und Erholung*")
	assert.Contains(t, sender.sent[0].text, "Verstandene Stichworte: tiefschlaf")

	history, ok := chat.Transcript("4915100000000")
	require.True(t, ok)
	assert.Len(t, history, 3)
}

func TestMessageService_SendError(t *testing.T) {
	sender := &stubSender{err: errors.New("offline")}
	svc := NewMessageService(testChat(t, 0), sender, zerolog.Nop())

	err := svc.ProcessMessage(context.Background(), "1", "Immunsystem", "")
	assert.EqualError(t, err, "offline")
}

func TestChatService_StartSessionConcurrent(t *testing.T) {
	chat := testChat(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chat.StartSession("s1")
		}()
	}
	wg.Wait()

	history, ok := chat.Transcript("s1")
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestChatService_ConversationDoesNotOpenSession(t *testing.T) {
	store := sessions.NewStore(0)
	base, err := knowledge.Default()
	require.NoError(t, err)
	chat := NewChatService(agent.New(base), base, store, zerolog.Nop())

	for _, id := range []string{"", "unknown"} {
		history := chat.Conversation(id)
		require.Len(t, history, 1)
		assert.Equal(t, "welcome", history[0].ID)
	}
	assert.Zero(t, store.Len())

	_, err = chat.Ask("s1", "Herz")
	require.NoError(t, err)
	assert.Len(t, chat.Conversation("s1"), 3)
}

func TestChatService_EndSession(t *testing.T) {
	chat := testChat(t, 0)
	_, err := chat.Ask("s1", "Herz")
	require.NoError(t, err)

	assert.True(t, chat.EndSession("s1"))
	assert.False(t, chat.EndSession("s1"))

	_, ok := chat.Transcript("s1")
	assert.False(t, ok)
}

func TestChatService_SweepSessionsRemovesIdle(t *testing.T) {
	store := sessions.NewStore(0, sessions.WithIdleTTL(time.Millisecond))
	base, err := knowledge.Default()
	require.NoError(t, err)
	chat := NewChatService(agent.New(base), base, store, zerolog.Nop())

	_, err = chat.Ask("s1", "Herz")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go chat.SweepSessions(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}
