// Package envscan finds and classifies environment variables in an
// application source tree, so they can be checked against what a blueprint
// actually declares.
package envscan

import (
	"strconv"
	"strings"
	"unicode"
)

type EnvType int

const (
	EnvTypeUnknown EnvType = iota
	EnvTypeSecret
	EnvTypeDatabase
	EnvTypeConfig
	EnvTypeGenerated // value looks machine-generated (uuid, nanoid, token)
	EnvTypeURL
	EnvTypeBoolean
	EnvTypeNumeric
)

func (t EnvType) String() string {
	switch t {
	case EnvTypeSecret:
		return "secret"
	case EnvTypeDatabase:
		return "database"
	case EnvTypeConfig:
		return "config"
	case EnvTypeGenerated:
		return "generated"
	case EnvTypeURL:
		return "url"
	case EnvTypeBoolean:
		return "boolean"
	case EnvTypeNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Finding is one environment variable pulled out of a source file.
type Finding struct {
	VarName    string
	Value      string
	Type       EnvType
	Sensitive  bool
	Source     string // e.g. "dotenv:/path/to/.env"
	Confidence int
}

var secretPatterns = []string{
	"secret", "key", "token", "password", "pass", "pwd",
	"auth", "authorization", "credential", "cred",
	"private", "priv", "cert", "certificate",
	"api_key", "apikey", "access_key", "secret_key",
	"client_secret", "client_id", "oauth",
	"bearer", "jwt", "session", "cookie",
	"salt", "hash", "signature", "signing",
	"encryption", "decrypt", "cipher",
	"webhook", "hook", "vault", "secure",
}

var databasePatterns = []string{
	"database_url", "db_url", "dsn", "connection_string",
	"postgres_url", "mysql_url", "mongodb_url", "redis_url",
}

var systemEnvVars = []string{
	"path", "home", "user", "shell", "pwd", "lang", "term", "tmpdir",
	"ps1", "ps2", "ifs", "mail", "mailpath", "optind", "editor",
	"pager", "browser", "display", "xauthority", "ssh_auth_sock",
	"oldpwd", "shlvl", "hostname", "logname", "uid", "gid",
}

// ShouldIgnore reports whether a variable is shell/system noise rather than
// application configuration.
func ShouldIgnore(name string) bool {
	nameLower := strings.ToLower(name)
	for _, sysVar := range systemEnvVars {
		if nameLower == sysVar {
			return true
		}
	}
	return false
}

// Classify guesses the type of an env var from its name and value, and
// whether it should be treated as sensitive.
func Classify(name, value string) (EnvType, bool) {
	nameLower := strings.ToLower(name)

	if ShouldIgnore(name) {
		return EnvTypeUnknown, false
	}

	if looksGenerated(value) {
		return EnvTypeGenerated, true
	}

	for _, pattern := range databasePatterns {
		if strings.Contains(nameLower, pattern) {
			return EnvTypeDatabase, true
		}
	}

	for _, pattern := range secretPatterns {
		if strings.Contains(nameLower, pattern) {
			return EnvTypeSecret, true
		}
	}

	if strings.HasPrefix(value, "http") || strings.Contains(nameLower, "url") {
		return EnvTypeURL, false
	}

	if value == "true" || value == "false" || strings.Contains(nameLower, "enable") ||
		strings.Contains(nameLower, "debug") || strings.Contains(nameLower, "flag") {
		return EnvTypeBoolean, false
	}

	if isNumeric(value) {
		return EnvTypeNumeric, false
	}

	return EnvTypeConfig, false
}

func looksGenerated(value string) bool {
	if len(value) < 8 {
		return false
	}

	// UUID pattern (36 chars with dashes)
	if len(value) == 36 && strings.Count(value, "-") == 4 {
		return true
	}

	// Nanoid pattern (URL-safe base64, typically 21 chars but can vary)
	if isURLSafeBase64(value) && len(value) >= 16 {
		return true
	}

	// JWT tokens (3 base64 parts separated by dots)
	if strings.Count(value, ".") == 2 && len(value) > 50 {
		return true
	}

	if len(value) >= 20 && hasHighEntropy(value) && containsMixedCase(value) {
		return true
	}

	return false
}

func isURLSafeBase64(s string) bool {
	for _, r := range s {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func hasHighEntropy(value string) bool {
	charCount := make(map[rune]int)
	for _, r := range value {
		charCount[r]++
	}

	uniqueRatio := float64(len(charCount)) / float64(len(value))
	return uniqueRatio > 0.5
}

func containsMixedCase(value string) bool {
	hasUpper := false
	hasLower := false
	for _, r := range value {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
		if hasUpper && hasLower {
			return true
		}
	}
	return false
}

func isNumeric(value string) bool {
	_, err := strconv.Atoi(value)
	return err == nil
}
