package fingerprint

import (
	"bytes"
	"os"
	"strings"
)

const (
	DefaultLanguage = "en"
	DefaultCountry  = "US"
)

// Fingerprint é o conjunto de atributos do ambiente enviados ao resolver.
// Reconstruído a cada launch, nunca persistido.
type Fingerprint struct {
	OSVersion     string `json:"osVersion"`
	Language      string `json:"language"`
	DeviceModel   string `json:"deviceModel"`
	Country       string `json:"country"`
	AttributionID string `json:"attributionId"`
}

// SystemInfo é o subconjunto do uname que interessa ao fingerprint
type SystemInfo struct {
	Release string
	Machine string
}

// AttributionSource fornece o identificador de atribuição da instalação
type AttributionSource interface {
	AttributionID() string
}

var osGetenv = os.Getenv

// Collector deriva o Fingerprint. Todas as fontes são injetáveis para testes.
type Collector struct {
	systemInfo  func() (SystemInfo, bool)
	getenv      func(string) string
	attribution AttributionSource
}

// Option configura um Collector
type Option func(*Collector)

// WithSystemInfo substitui a leitura do uname
func WithSystemInfo(fn func() (SystemInfo, bool)) Option {
	return func(c *Collector) { c.systemInfo = fn }
}

// WithEnv substitui a leitura de variáveis de ambiente (locale)
func WithEnv(getenv func(string) string) Option {
	return func(c *Collector) { c.getenv = getenv }
}

// NewCollector cria um Collector com as fontes reais do sistema
func NewCollector(attribution AttributionSource, opts ...Option) *Collector {
	c := &Collector{
		systemInfo:  unameSystemInfo,
		getenv:      osGetenv,
		attribution: attribution,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect monta o Fingerprint. Não falha: cada campo tem fallback fixo.
func (c *Collector) Collect() Fingerprint {
	fp := Fingerprint{
		Language: DefaultLanguage,
		Country:  DefaultCountry,
	}

	if info, ok := c.systemInfo(); ok {
		fp.OSVersion = strings.TrimSpace(info.Release)
		fp.DeviceModel = strings.ToLower(strings.TrimSpace(info.Machine))
	}

	if lang, country := parseLocale(c.preferredLocale()); lang != "" {
		fp.Language = lang
		if country != "" {
			fp.Country = country
		}
	}

	if c.attribution != nil {
		fp.AttributionID = c.attribution.AttributionID()
	}

	return fp
}

// preferredLocale segue a precedência POSIX: LC_ALL > LC_MESSAGES > LANG, e LANGUAGE por último.
func (c *Collector) preferredLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := strings.TrimSpace(c.getenv(key)); value != "" {
			return value
		}
	}
	// LANGUAGE é uma lista "pt_BR:en"; vale a primeira entrada
	if value := strings.TrimSpace(c.getenv("LANGUAGE")); value != "" {
		return strings.TrimSpace(strings.Split(value, ":")[0])
	}
	return ""
}

// parseLocale extrai idioma e região de "pt_BR.UTF-8@euro" / "en-US".
// Retorna idioma vazio quando o locale não identifica um idioma (C, POSIX).
func parseLocale(raw string) (string, string) {
	locale := strings.TrimSpace(raw)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", ""
	}

	parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) == 0 {
		return "", ""
	}

	lang := strings.ToLower(parts[0])
	country := ""
	for _, part := range parts[1:] {
		// pula script (ex.: zh-Hans-CN) e fica com a região de 2 letras
		if len(part) == 2 {
			country = strings.ToUpper(part)
			break
		}
	}
	return lang, country
}

// decodeCString lê um buffer terminado em NUL; buffer vazio vira "".
func decodeCString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
