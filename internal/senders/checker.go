package senders

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to an ignored domain. Subdomains
// of an ignored domain are ignored too.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new ignored-sender checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".@")
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized ignored sender domains", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsIgnored checks if the sender's domain is on the ignore list
func (c *Checker) IsIgnored(sender string) bool {
	if len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(sender[at+1:]))

	for _, ignored := range c.domains {
		if domain == ignored || strings.HasSuffix(domain, "."+ignored) {
			c.logger.Debug("Sender domain is ignored",
				zap.String("domain", domain),
				zap.String("sender", sender))
			return true
		}
	}

	return false
}
