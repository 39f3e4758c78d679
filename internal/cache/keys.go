package cache

import "strings"

const (
	GlobalKeyPrefix = "aigov"

	ServiceAssessment = "assessment"
	ObjectSummary     = "summary"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SummaryKey scopes a cached summary to its owner so a key never leaks across users.
func SummaryKey(userID, assessmentID string) string {
	return GenerateCacheKey(ServiceAssessment, ObjectSummary, assessmentID, userID)
}
