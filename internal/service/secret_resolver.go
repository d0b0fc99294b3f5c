package service

import (
	"os"
	"strings"
)

// SecretResolver maps a domain to its signing secret. The resolved value
// takes precedence over any secret embedded in the durable tenant record
// (legacy compatibility path).
type SecretResolver interface {
	Resolve(domain string) string
}

// EnvSecretResolver reads the per-domain secret slot from the environment:
// user1.com -> TRONGATE_SECRET_USER1_COM.
type EnvSecretResolver struct {
	prefix string
}

func NewEnvSecretResolver() *EnvSecretResolver {
	return &EnvSecretResolver{prefix: "TRONGATE_SECRET_"}
}

func (r *EnvSecretResolver) Resolve(domain string) string {
	return strings.TrimSpace(os.Getenv(r.prefix + slotName(domain)))
}

func slotName(domain string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(domain) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
