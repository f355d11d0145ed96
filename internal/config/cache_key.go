package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding a session record, keyed by JTI.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

// SessionScanPattern matches every stored session record.
func (r *CacheKeyStruct) SessionScanPattern() string {
	return "session:*"
}

// ConfirmTokenKey returns the cache key for an email-confirmation token.
func (r *CacheKeyStruct) ConfirmTokenKey(token string) string {
	return fmt.Sprintf("confirm:%s", token)
}

// OverdueSweepLockKey is the lock key ensuring a single overdue sweep runner.
func (r *CacheKeyStruct) OverdueSweepLockKey() string {
	return "payments:overdue_sweep:lock"
}

var CacheKey = NewCacheKeyStruct()
