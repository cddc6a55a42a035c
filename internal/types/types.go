package types

import "sort"

// Secret is a parsed credential bundle, keyed by field name
type Secret map[string]string

// Get returns the value stored under key, or "" when absent
func (s Secret) Get(key string) string {
	return s[key]
}

// Has reports whether key is present
func (s Secret) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// IsEmpty reports whether the bundle holds no fields
func (s Secret) IsEmpty() bool {
	return len(s) == 0
}

// Keys returns the field names in sorted order
func (s Secret) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Database is a typed view over a database credential bundle
type Database struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
}

// Database reads the well-known database keys out of the bundle
func (s Secret) Database() Database {
	return Database{
		Username: s.Get("username"),
		Password: s.Get("password"),
		Host:     s.Get("host"),
		Port:     s.Get("port"),
		DBName:   s.Get("dbname"),
	}
}

// Backend names a secret store implementation
type Backend string

const (
	BackendAWS         Backend = "aws"
	BackendOnePassword Backend = "onepassword"
)

// Backends lists every supported backend
var Backends = []Backend{BackendAWS, BackendOnePassword}
