package modecache

// Credential é o par token/link que habilita o modo browser.
type Credential struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

// Valid indica que os dois campos estão preenchidos; qualquer outro estado conta como ausente.
func (c Credential) Valid() bool {
	return c.Token != "" && c.Link != ""
}

// Cache guarda no máximo uma credencial. Nenhuma operação expõe erro:
// falha de leitura vira "ausente" e falha de escrita é no-op (ambas logadas).
type Cache interface {
	// Credential retorna a credencial só quando token e link estão presentes e não vazios.
	Credential() (Credential, bool)
	// Save grava token e link juntos.
	Save(token, link string)
	// Clear remove os dois campos.
	Clear()
}
