// Package config reads retsctl settings from a dotenv file and the process
// environment.
package config

import (
	"strconv"

	"github.com/apex/log"
)

// Configer looks up string keys. Implementations only need to provide
// Load, LoadFromPath and GetKey, the typed getters are built on lookup.
type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKey(key string) int
	GetIntKeyWithDefault(key string, defaultValue int) int
}

// lookup holds the typed getters shared by every Configer.
type lookup struct {
	get func(key string) string
}

func (l lookup) MustGetKey(key string) string {
	val := l.get(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (l lookup) GetKeyWithDefault(key, defaultValue string) string {
	if val := l.get(key); val != "" {
		return val
	}

	return defaultValue
}

func (l lookup) GetIntKey(key string) int {
	return l.GetIntKeyWithDefault(key, 0)
}

func (l lookup) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(l.get(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}
