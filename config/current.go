package config

import "sync"

var (
	currentLock sync.RWMutex
	current     = Default()
)

func GetCurrent() Config {
	currentLock.RLock()
	defer currentLock.RUnlock()
	return current
}

func SetCurrent(c Config) {
	currentLock.Lock()
	current = c
	currentLock.Unlock()
}
