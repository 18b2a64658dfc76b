package common

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// MaskedValue replaces any secret found in log output.
const MaskedValue = "***MASKED***"

// SensitivePattern represents a pattern to detect and mask sensitive information
type SensitivePattern struct {
	Name        string         // Pattern name (e.g., "api_key")
	Regex       *regexp.Regexp // Regular expression to match sensitive data
	Replacement string         // Replacement string
	Keys        []string       // Attribute keys whose values are always masked (case-insensitive)
}

// DefaultSensitivePatterns covers the credentials that can show up while smoke testing:
// the upstream key in headers, JSON bodies and command lines, plus generic tokens.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "api_key",
		Regex:       regexp.MustCompile(`(?i)((?:x[_-])?api[_-]?key)(["'\s]*[:=]\s*["']?)([^"',}\]\s]+)`),
		Replacement: "${1}${2}" + MaskedValue,
		Keys:        []string{"api_key", "apikey", "api-key", "x-api-key", "x_api_key"},
	},
	{
		Name:        "api_key_flag",
		Regex:       regexp.MustCompile(`(--api-key[=\s]+)(\S+)`),
		Replacement: "${1}" + MaskedValue,
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)((?:access[_-]?|auth[_-]?)?token)(["'\s]*[:=]\s*["']?)([^"',}\]\s]+)`),
		Replacement: "${1}${2}" + MaskedValue,
		Keys:        []string{"token", "access_token", "auth_token"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer " + MaskedValue,
	},
	{
		Name:        "secret",
		Regex:       regexp.MustCompile(`(?i)((?:client[_-]?)?secret|password)(["'\s]*[:=]\s*["']?)([^"',}\]\s]+)`),
		Replacement: "${1}${2}" + MaskedValue,
		Keys:        []string{"secret", "client_secret", "password", "authorization"},
	},
}

// Masker handles masking of sensitive information in logs.
// Besides pattern matching it masks registered literal secrets wherever they appear.
type Masker struct {
	mu       sync.RWMutex
	patterns []SensitivePattern
	literals []string
	enabled  bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return &Masker{
		patterns: DefaultSensitivePatterns,
		enabled:  true,
	}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// AddSecret registers a literal value (e.g. the configured API key) to be masked
// verbatim. Values shorter than four characters are ignored.
func (m *Masker) AddSecret(secret string) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 4 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.literals {
		if s == secret {
			return
		}
	}
	m.literals = append(m.literals, secret)
	// longest first so a secret containing another is replaced whole
	sort.Slice(m.literals, func(i, j int) bool { return len(m.literals[i]) > len(m.literals[j]) })
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.IsEnabled() {
		return input
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := input
	for _, lit := range m.literals {
		result = strings.ReplaceAll(result, lit, MaskedValue)
	}
	for _, pattern := range m.patterns {
		result = pattern.Regex.ReplaceAllString(result, pattern.Replacement)
	}
	return result
}

// MaskValue masks a value based on its key, then falls back to content patterns.
func (m *Masker) MaskValue(key, value string) string {
	if !m.IsEnabled() {
		return value
	}
	if m.isSensitiveKey(key) {
		return MaskedValue
	}
	return m.MaskString(value)
}

func (m *Masker) isSensitiveKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lowerKey := strings.ToLower(key)
	for _, pattern := range m.patterns {
		for _, sensitiveKey := range pattern.Keys {
			if lowerKey == sensitiveKey {
				return true
			}
		}
	}
	return false
}

// Global masker instance
var globalMasker = NewMasker()

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// MaskSensitiveData masks sensitive data using the global masker
func MaskSensitiveData(input string) string {
	return globalMasker.MaskString(input)
}

// RegisterSecret adds a literal secret to the global masker.
func RegisterSecret(secret string) {
	globalMasker.AddSecret(secret)
}
