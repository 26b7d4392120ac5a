package modecache

import "log"

// SettingsStore é a parte do database.Service usada pelo cache
type SettingsStore interface {
	GetSettings(keys ...string) (map[string]string, error)
	SetSettings(values map[string]string) error
	DeleteSettings(keys ...string) error
}

// SQLite persiste a credencial como duas linhas de settings, gravadas e removidas
// na mesma transação.
type SQLite struct {
	store    SettingsStore
	tokenKey string
	linkKey  string
}

func NewSQLite(store SettingsStore, tokenKey, linkKey string) *SQLite {
	return &SQLite{
		store:    store,
		tokenKey: tokenKey,
		linkKey:  linkKey,
	}
}

func (c *SQLite) Credential() (Credential, bool) {
	values, err := c.store.GetSettings(c.tokenKey, c.linkKey)
	if err != nil {
		log.Printf("[CACHE] Failed to read credential, treating as absent: %v", err)
		return Credential{}, false
	}

	cred := Credential{Token: values[c.tokenKey], Link: values[c.linkKey]}
	if !cred.Valid() {
		return Credential{}, false
	}
	return cred, true
}

func (c *SQLite) Save(token, link string) {
	if err := c.store.SetSettings(map[string]string{
		c.tokenKey: token,
		c.linkKey:  link,
	}); err != nil {
		log.Printf("[CACHE] Failed to save credential: %v", err)
	}
}

func (c *SQLite) Clear() {
	if err := c.store.DeleteSettings(c.tokenKey, c.linkKey); err != nil {
		log.Printf("[CACHE] Failed to clear credential: %v", err)
	}
}
