package modecache

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/zalando/go-keyring"
)

// Keychain guarda token e link como um único segredo JSON no keychain do sistema,
// então uma leitura nunca vê só metade da credencial.
type Keychain struct {
	service string
	account string
}

func NewKeychain(service, account string) *Keychain {
	return &Keychain{service: service, account: account}
}

func (c *Keychain) Credential() (Credential, bool) {
	raw, err := keyring.Get(c.service, c.account)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Printf("[CACHE] Keychain read failed, treating as absent: %v", err)
		}
		return Credential{}, false
	}

	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		log.Printf("[CACHE] Keychain entry is not a credential, treating as absent: %v", err)
		return Credential{}, false
	}
	if !cred.Valid() {
		return Credential{}, false
	}
	return cred, true
}

func (c *Keychain) Save(token, link string) {
	payload, err := json.Marshal(Credential{Token: token, Link: link})
	if err != nil {
		log.Printf("[CACHE] Failed to encode credential: %v", err)
		return
	}
	if err := keyring.Set(c.service, c.account, string(payload)); err != nil {
		log.Printf("[CACHE] Failed to store credential in keychain: %v", err)
	}
}

func (c *Keychain) Clear() {
	if err := keyring.Delete(c.service, c.account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Printf("[CACHE] Warning: failed to delete keychain credential: %v", err)
	}
}
