package sessions

import (
	"container/list"
	"sync"
	"time"

	"humanagent/internal/domain"
)

type session struct {
	key      string
	history  []domain.Message
	lastSeen time.Time
}

// Store guarda o historico de conversa de cada sessao apenas em memoria.
// A chave e o id do cookie do navegador ou o numero do WhatsApp.
// O numero de sessoes e limitado: acima de maxSessions a sessao usada ha mais tempo sai,
// e Sweep remove as sessoes paradas por mais de idleTTL.
type Store struct {
	mu          sync.Mutex // protege o mapa e a lista de uso
	limit       int
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
	sessions    map[string]*list.Element
	order       *list.List // frente = usada mais recentemente
}

// Option configura um Store.
type Option func(*Store)

// WithMaxSessions limita quantas sessoes ficam abertas. n <= 0 desativa o limite.
func WithMaxSessions(n int) Option {
	return func(s *Store) { s.maxSessions = n }
}

// WithIdleTTL define depois de quanto tempo sem uso Sweep remove a sessao. d <= 0 desativa.
func WithIdleTTL(d time.Duration) Option {
	return func(s *Store) { s.idleTTL = d }
}

// NewStore cria um Store que mantem no maximo limit mensagens por sessao.
// limit <= 0 desativa o corte.
func NewStore(limit int, opts ...Option) *Store {
	s := &Store{
		limit:    limit,
		now:      time.Now,
		sessions: make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init cria a sessao com as mensagens iniciais se ela ainda nao existir.
// Retorna true quando a sessao foi criada agora.
func (s *Store) Init(key string, msgs ...domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.sessions[key]; ok {
		s.touchLocked(el)
		return false
	}
	s.createLocked(key).history = s.trim(append([]domain.Message(nil), msgs...))
	return true
}

// Append adiciona mensagens ao fim da sessao, descartando as mais antigas acima do limite.
func (s *Store) Append(key string, msgs ...domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess *session
	if el, ok := s.sessions[key]; ok {
		s.touchLocked(el)
		sess = el.Value.(*session)
	} else {
		sess = s.createLocked(key)
	}
	sess.history = s.trim(append(sess.history, msgs...))
}

// Get retorna uma copia do historico e se a sessao existe. Conta como uso da sessao.
func (s *Store) Get(key string) ([]domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	s.touchLocked(el)
	return append([]domain.Message(nil), el.Value.(*session).history...), true
}

// Delete remove uma sessão e informa se ela existia.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.sessions[key]
	if ok {
		s.removeLocked(el)
	}
	return ok
}

// Len retorna o numero de sessoes abertas.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep remove as sessoes sem uso ha mais de idleTTL e retorna quantas saíram.
func (s *Store) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for el := s.order.Back(); el != nil; el = s.order.Back() {
		if !el.Value.(*session).lastSeen.Before(cutoff) {
			break
		}
		s.removeLocked(el)
		removed++
	}
	return removed
}

func (s *Store) createLocked(key string) *session {
	sess := &session{key: key, lastSeen: s.now()}
	s.sessions[key] = s.order.PushFront(sess)
	for s.maxSessions > 0 && s.order.Len() > s.maxSessions {
		s.removeLocked(s.order.Back())
	}
	return sess
}

func (s *Store) touchLocked(el *list.Element) {
	el.Value.(*session).lastSeen = s.now()
	s.order.MoveToFront(el)
}

func (s *Store) removeLocked(el *list.Element) {
	s.order.Remove(el)
	delete(s.sessions, el.Value.(*session).key)
}

func (s *Store) trim(history []domain.Message) []domain.Message {
	if s.limit > 0 && len(history) > s.limit {
		return append([]domain.Message(nil), history[len(history)-s.limit:]...)
	}
	return history
}
