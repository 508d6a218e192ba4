package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the product constants the frontend ships with.
const (
	defaultPassingScore     = 80.0
	defaultFreeSessionLimit = 3
	defaultSessionTTLHours  = 24
	defaultQuestionCount    = 10
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// PassingScore is the percentage a completed session must reach to count as
// passed. Kept out of the scoring code so deployments can tune it.
func PassingScore() float64 {
	if v := Config("PASSING_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil && score >= 0 && score <= 100 {
			return score
		}
		log.Printf("Warning: invalid PASSING_SCORE %q, using default", v)
	}
	return defaultPassingScore
}

// FreeSessionLimit is how many practice tests a non-premium user may start
// per calendar day.
func FreeSessionLimit() int {
	if v := Config("FREE_SESSION_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid FREE_SESSION_LIMIT %q, using default", v)
	}
	return defaultFreeSessionLimit
}

// QuotaLocation is the timezone whose calendar day bounds the free-tier
// session quota. Unset or invalid falls back to UTC.
func QuotaLocation() *time.Location {
	if v := Config("QUOTA_TIMEZONE"); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			return loc
		}
		log.Printf("Warning: invalid QUOTA_TIMEZONE %q, using UTC", v)
	}
	return time.UTC
}

// SessionTTL is how long a session may sit in-progress before the reaper
// finalizes it.
func SessionTTL() time.Duration {
	if v := Config("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
		log.Printf("Warning: invalid SESSION_TTL_HOURS %q, using default", v)
	}
	return defaultSessionTTLHours * time.Hour
}

// DefaultQuestionCount is the sample size used when a start request does not
// ask for a specific number of questions.
func DefaultQuestionCount() int {
	if v := Config("DEFAULT_QUESTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultQuestionCount
}
