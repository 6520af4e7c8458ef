package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Port               int           `env:"PORT,required=true"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath      string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	SendBufferSize     int           `env:"SEND_BUFFER_SIZE,required=true"`
	PresenceBufferSize int           `env:"PRESENCE_BUFFER_SIZE,required=true"`
	LimitMessages      *int          `env:"LIMIT_MESSAGES"`
	SearchLimit        int           `env:"SEARCH_LIMIT,required=true"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,required=true"`
	StorageGCInterval  time.Duration `env:"STORAGE_GC_INTERVAL,required=true"`
	AuthSecret         string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	CensoredWords      string        `env:"CENSORED_WORDS"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,required=true"`
}

// CharacterRune converts the configured replacement into a single rune.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// Words splits the comma separated censored word list, dropping empties.
func (c Config) Words() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
