package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: florist:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // catalog listings
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // single service
	TTL_REALTIME_SHORT    = 30 * time.Second // per-user tracker lists
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "florist"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_CATALOG_LIST   = CACHE_PREFIX + ":catalog:list"         // + :mode:X:category:Y:available:Z
	CACHE_KEY_CATALOG_DETAIL = CACHE_PREFIX + ":catalog:detail:uuid:" // + service-id
)

const (
	TTL_CATALOG_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_CATALOG_DETAIL = TTL_SEMI_STATIC_QUICK
)

// ================== USER LISTS ==================

const (
	CACHE_KEY_USER = CACHE_PREFIX + ":user:" // + user-id + :reservations | :discussions

	TTL_USER_LISTS = TTL_REALTIME_SHORT
)

// ================== NOTIFICATION INBOX ==================

const (
	CACHE_KEY_INBOX = CACHE_PREFIX + ":inbox:user:" // + user-id
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATELIMIT = CACHE_PREFIX + ":ratelimit:" // + ip:type
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_CATALOG = CACHE_PREFIX + ":catalog:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildCatalogListKey -> "florist:catalog:list:mode:on_quote:category:mariage:available:true"
func BuildCatalogListKey(mode, category string, onlyAvailable bool) string {
	return fmt.Sprintf("%s:mode:%s:category:%s:available:%t", CACHE_KEY_CATALOG_LIST, mode, category, onlyAvailable)
}

func BuildCatalogDetailKey(serviceID string) string {
	return CACHE_KEY_CATALOG_DETAIL + serviceID
}

func BuildUserReservationsKey(userID string) string {
	return CACHE_KEY_USER + userID + ":reservations"
}

func BuildUserDiscussionsKey(userID string) string {
	return CACHE_KEY_USER + userID + ":discussions"
}

func BuildInboxKey(userID string) string {
	return CACHE_KEY_INBOX + userID
}

func BuildRateLimitKey(ip, limitType string) string {
	return CACHE_KEY_RATELIMIT + ip + ":" + limitType
}
