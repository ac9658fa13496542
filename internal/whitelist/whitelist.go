package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker reports whether a sender is trusted. Entries containing "@" match a
// full address, anything else matches the sender's domain.
type Checker struct {
	domains   map[string]struct{}
	addresses map[string]struct{}
	logger    *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(entries []string, logger *zap.Logger) *Checker {
	c := &Checker{
		domains:   make(map[string]struct{}),
		addresses: make(map[string]struct{}),
		logger:    logger,
	}

	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		switch {
		case entry == "":
			continue
		case strings.Contains(entry, "@"):
			c.addresses[entry] = struct{}{}
		default:
			c.domains[strings.TrimPrefix(entry, "@")] = struct{}{}
		}
	}

	if c.Len() > 0 && logger != nil {
		logger.Info("Initialized whitelist checker",
			zap.Int("domains", len(c.domains)),
			zap.Int("addresses", len(c.addresses)))
	}

	return c
}

// Len returns the number of whitelist entries
func (c *Checker) Len() int {
	return len(c.domains) + len(c.addresses)
}

// IsWhitelisted checks the sender address, which may include a display name
func (c *Checker) IsWhitelisted(from string) bool {
	if c.Len() == 0 {
		return false
	}

	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}
	address = strings.ToLower(strings.Trim(address, "<>"))

	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return false
	}

	if _, ok := c.addresses[address]; ok {
		c.debug("Address is whitelisted", address)
		return true
	}
	if _, ok := c.domains[address[at+1:]]; ok {
		c.debug("Domain is whitelisted", address)
		return true
	}
	return false
}

func (c *Checker) debug(msg, address string) {
	if c.logger != nil {
		c.logger.Debug(msg, zap.String("email", address))
	}
}
