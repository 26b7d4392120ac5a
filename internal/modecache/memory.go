package modecache

import "sync"

// Memory mantém a credencial só no processo. Usado quando o banco não abre
// e nos testes.
type Memory struct {
	mu   sync.RWMutex
	cred Credential
}

func NewMemory() *Memory {
	return &Memory{}
}

func (c *Memory) Credential() (Credential, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.cred.Valid() {
		return Credential{}, false
	}
	return c.cred, true
}

func (c *Memory) Save(token, link string) {
	c.mu.Lock()
	c.cred = Credential{Token: token, Link: link}
	c.mu.Unlock()
}

func (c *Memory) Clear() {
	c.mu.Lock()
	c.cred = Credential{}
	c.mu.Unlock()
}
