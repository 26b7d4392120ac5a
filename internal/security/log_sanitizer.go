package security

import "regexp"

// LogSanitizer remove credenciais do bootstrap (token, chave de parceiro) antes de logar.
type LogSanitizer struct {
	patterns []*regexp.Regexp
}

func NewLogSanitizer() *LogSanitizer {
	return &LogSanitizer{
		patterns: []*regexp.Regexp{
			// Parâmetro "p" da query carrega a chave pré-compartilhada.
			regexp.MustCompile(`([?&]p=)[^&\s]+`),
			regexp.MustCompile(`(?i)((?:token|secret|password|authorization)\s*[:=]\s*)['"]?[\w\-\.]+['"]?`),
			regexp.MustCompile(`(?i)(bearer\s+)[\w\-\.=]+`),
		},
	}
}

var credentialPayloadPattern = regexp.MustCompile(`^[^#\s]+#`)

func (s *LogSanitizer) Sanitize(message string) string {
	if s == nil {
		return message
	}

	clean := message
	for _, p := range s.patterns {
		clean = p.ReplaceAllString(clean, "${1}[REDACTED]")
	}
	return clean
}

// SanitizePayload mascara o token de uma resposta "<token>#<link>" mantendo o link visível.
func (s *LogSanitizer) SanitizePayload(body string) string {
	if s == nil {
		return body
	}
	return s.Sanitize(credentialPayloadPattern.ReplaceAllString(body, "[REDACTED]#"))
}
