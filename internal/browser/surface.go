package browser

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
)

// EventStateChanged é emitido a cada mudança do estado de carregamento
const EventStateChanged = "browser:state"

var ErrInvalidAddress = errors.New("browser address is not an absolute http(s) url")

// Window é a janela nativa que hospeda o webview
type Window interface {
	Fullscreen()
	Navigate(address string)
}

// State é o estado do modo browser exposto ao frontend
type State struct {
	Address            string `json:"address"`
	IsLoading          bool   `json:"isLoading"`
	HasLoadedInitially bool   `json:"hasLoadedInitially"`
	LastError          string `json:"lastError,omitempty"`
}

// Surface controla a superfície browser em tela cheia.
// O spinner só aparece até a primeira carga; navegações seguintes não o reexibem.
type Surface struct {
	mu     sync.Mutex
	window Window
	emit   func(eventName string, data interface{})
	state  State
}

func NewSurface(window Window, emit func(eventName string, data interface{})) *Surface {
	return &Surface{
		window: window,
		emit:   emit,
		state:  State{IsLoading: true},
	}
}

// Open coloca a janela em tela cheia e navega até address. Endereço inválido
// não é carregado e encerra o loading para o frontend não ficar preso no spinner.
func (s *Surface) Open(address string) error {
	if !isNavigable(address) {
		s.update(func(st *State) {
			st.Address = address
			st.IsLoading = false
			st.HasLoadedInitially = true
			st.LastError = ErrInvalidAddress.Error()
		})
		log.Printf("[BROWSER] Refusing to navigate to invalid address %q", address)
		return ErrInvalidAddress
	}

	s.update(func(st *State) {
		st.Address = address
		st.IsLoading = !st.HasLoadedInitially
		st.LastError = ""
	})

	if s.window != nil {
		s.window.Fullscreen()
		s.window.Navigate(address)
	}
	log.Printf("[BROWSER] Navigating to %s", address)
	return nil
}

// DidStartNavigation marca loading apenas antes da primeira carga completa
func (s *Surface) DidStartNavigation() {
	s.update(func(st *State) {
		if !st.HasLoadedInitially {
			st.IsLoading = true
		}
	})
}

// DidFinishInitialLoad encerra o loading inicial
func (s *Surface) DidFinishInitialLoad() {
	s.update(func(st *State) {
		st.HasLoadedInitially = true
		st.IsLoading = false
	})
}

// DidFailNavigation trata falha de carga como fim do loading inicial
func (s *Surface) DidFailNavigation(reason string) {
	s.update(func(st *State) {
		if !st.HasLoadedInitially {
			st.HasLoadedInitially = true
			st.IsLoading = false
		}
		st.LastError = strings.TrimSpace(reason)
	})
	log.Printf("[BROWSER] Navigation failed: %s", reason)
}

// State retorna uma cópia do estado atual
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Surface) update(mutate func(st *State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	s.mu.Unlock()

	if s.emit != nil {
		s.emit(EventStateChanged, snapshot)
	}
}

func isNavigable(address string) bool {
	parsed, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}
