package bootstrap

import "errors"

// State é o estado da máquina de bootstrap
type State string

const (
	StateInit        State = "init"
	StateResolving   State = "resolving"
	StateBrowserMode State = "browser_mode"
	StateLocalMode   State = "local_mode"
)

// Terminal indica que a decisão do processo já foi tomada
func (s State) Terminal() bool {
	return s == StateBrowserMode || s == StateLocalMode
}

// Mode é o modo de apresentação entregue ao frontend
type Mode string

const (
	ModeBrowser Mode = "browser"
	ModeLocal   Mode = "local"
)

// Decision é a decisão única do processo: Browser{Link} ou Local.
type Decision struct {
	Mode Mode   `json:"mode"`
	Link string `json:"link,omitempty"`
}

// BrowserDecision cria a decisão de modo browser
func BrowserDecision(link string) Decision {
	return Decision{Mode: ModeBrowser, Link: link}
}

// LocalDecision cria a decisão de modo local
func LocalDecision() Decision {
	return Decision{Mode: ModeLocal}
}

// Snapshot é o payload de handoff para a camada de apresentação.
// Mode fica vazio enquanto Loading=true.
type Snapshot struct {
	State   State  `json:"state"`
	Mode    Mode   `json:"mode,omitempty"`
	Link    string `json:"link,omitempty"`
	Loading bool   `json:"loading"`
}

// ErrMalformedPayload indica corpo decodificável que não segue "<token>#<link>".
var ErrMalformedPayload = errors.New("resolver payload is not <token>#<link>")

// Eventos emitidos para o frontend
const (
	EventStateChanged = "bootstrap:state"
	EventDecided      = "bootstrap:decided"
)
