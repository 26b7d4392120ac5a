package fingerprint

import (
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SettingStore é o armazenamento chave/valor usado para persistir o install id
type SettingStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// InstallID gera uma vez e reaproveita o identificador de atribuição da instalação.
type InstallID struct {
	store SettingStore
	key   string

	once sync.Once
	id   string
}

func NewInstallID(store SettingStore, key string) *InstallID {
	return &InstallID{store: store, key: key}
}

// AttributionID retorna o id persistido ou cria um novo. Falha de storage
// devolve um id válido só para este processo.
func (i *InstallID) AttributionID() string {
	i.once.Do(func() {
		i.id = i.load()
	})
	return i.id
}

func (i *InstallID) load() string {
	if i.store == nil {
		return uuid.NewString()
	}

	existing, ok, err := i.store.GetSetting(i.key)
	if err != nil {
		log.Printf("[FINGERPRINT] Failed to read install id: %v", err)
		return uuid.NewString()
	}
	if ok && strings.TrimSpace(existing) != "" {
		return existing
	}

	id := uuid.NewString()
	if err := i.store.SetSetting(i.key, id); err != nil {
		log.Printf("[FINGERPRINT] Failed to persist install id: %v", err)
	}
	return id
}
