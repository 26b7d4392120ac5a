package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"coinvoyage/internal/fingerprint"
	"coinvoyage/internal/modecache"
	"coinvoyage/internal/resolver"
	"coinvoyage/internal/security"
)

// FingerprintSource produz o fingerprint do launch
type FingerprintSource interface {
	Collect() fingerprint.Fingerprint
}

// EventEmitter publica transições para o frontend
type EventEmitter func(eventName string, data interface{})

// Controller decide, uma vez por processo, entre modo browser e modo local.
type Controller struct {
	cache        modecache.Cache
	resolver     resolver.Resolver
	fingerprints FingerprintSource
	emit         EventEmitter
	grace        time.Duration
	sanitizer    *security.LogSanitizer

	once sync.Once
	done chan struct{}

	mu       sync.RWMutex
	state    State
	decision Decision
}

// Option configura o Controller
type Option func(*Controller)

// WithEmitter registra o canal de publicação de estado
func WithEmitter(emit EventEmitter) Option {
	return func(c *Controller) { c.emit = emit }
}

// WithGrace define a espera antes da consulta remota (autorização de atribuição)
func WithGrace(grace time.Duration) Option {
	return func(c *Controller) {
		if grace > 0 {
			c.grace = grace
		}
	}
}

// WithSanitizer define o sanitizer usado nos logs de payload
func WithSanitizer(s *security.LogSanitizer) Option {
	return func(c *Controller) { c.sanitizer = s }
}

// New cria o controller com as dependências injetadas.
func New(cache modecache.Cache, r resolver.Resolver, fingerprints FingerprintSource, opts ...Option) *Controller {
	c := &Controller{
		cache:        cache,
		resolver:     r,
		fingerprints: fingerprints,
		sanitizer:    security.NewLogSanitizer(),
		done:         make(chan struct{}),
		state:        StateInit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executa o bootstrap uma única vez e devolve a decisão. Chamadas
// concorrentes ou repetidas aguardam e recebem a mesma decisão.
func (c *Controller) Run(ctx context.Context) Decision {
	c.once.Do(func() {
		c.run(ctx)
	})
	<-c.done
	return c.Decision()
}

// Done é fechado quando o estado terminal é publicado
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// State retorna o estado atual
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Decision retorna a decisão final; zero value enquanto não terminou.
func (c *Controller) Decision() Decision {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decision
}

// Snapshot retorna o payload de handoff, com loading=true até a decisão sair.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   c.state,
		Loading: !c.state.Terminal(),
	}
	if !snap.Loading {
		snap.Mode = c.decision.Mode
		snap.Link = c.decision.Link
	}
	return snap
}

func (c *Controller) run(ctx context.Context) {
	defer func() {
		// Nenhuma falha é fatal: qualquer pânico de colaborador cai no modo local.
		if r := recover(); r != nil {
			log.Printf("[BOOT] Recovered from panic during bootstrap: %v", r)
			c.finish(StateLocalMode, LocalDecision())
		}
	}()

	if cred, ok := c.cache.Credential(); ok {
		log.Printf("[BOOT] Cached credential found, reusing link %s", cred.Link)
		c.finish(StateBrowserMode, BrowserDecision(cred.Link))
		return
	}

	c.transition(StateResolving)
	c.waitGrace(ctx)

	fp := c.fingerprints.Collect()
	body, err := c.resolver.Resolve(ctx, fp)
	if err != nil {
		log.Printf("[BOOT] Resolver failed (%s), falling back to local mode: %v", resolver.KindOf(err), err)
		c.finish(StateLocalMode, LocalDecision())
		return
	}

	token, link, err := ParseCredential(body)
	if err != nil {
		log.Printf("[BOOT] %v (payload=%q), falling back to local mode", err, c.sanitizer.SanitizePayload(truncate(body, 120)))
		c.finish(StateLocalMode, LocalDecision())
		return
	}

	c.cache.Save(token, link)
	log.Printf("[BOOT] Credential resolved and cached, link %s", link)
	c.finish(StateBrowserMode, BrowserDecision(link))
}

// ParseCredential separa "<token>#<link>". Exige exatamente dois segmentos;
// nenhum dos dois é validado aqui.
func ParseCredential(body string) (string, string, error) {
	parts := strings.Split(body, "#")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %d segments", ErrMalformedPayload, len(parts))
	}
	return parts[0], parts[1], nil
}

func (c *Controller) waitGrace(ctx context.Context) {
	if c.grace <= 0 {
		return
	}
	timer := time.NewTimer(c.grace)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (c *Controller) transition(next State) {
	c.mu.Lock()
	c.state = next
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Printf("[BOOT] State -> %s", next)
	c.publish(EventStateChanged, snap)
}

func (c *Controller) finish(next State, decision Decision) {
	c.mu.Lock()
	if c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	c.state = next
	c.decision = decision
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Printf("[BOOT] State -> %s (mode=%s)", next, decision.Mode)
	close(c.done)
	c.publish(EventStateChanged, snap)
	c.publish(EventDecided, snap)
}

func (c *Controller) publish(eventName string, snap Snapshot) {
	if c.emit == nil {
		return
	}
	c.emit(eventName, snap)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
