package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// FlashSpellConfig holds configuration for the FLASH spell.
type FlashSpellConfig struct {
	DurationMS int `json:"duration_ms"`
}

// WrongSpellConfig holds configuration for the WRONG spell.
type WrongSpellConfig struct {
	Letters int `json:"letters"`
}

// BlockSpellConfig holds configuration for the BLOCK spell.
type BlockSpellConfig struct {
	DurationMS int `json:"duration_ms"`
}

// SpellsConfig holds per-spell configuration sections.
type SpellsConfig struct {
	Flash FlashSpellConfig `json:"flash"`
	Wrong WrongSpellConfig `json:"wrong"`
	Block BlockSpellConfig `json:"block"`
}

// Config holds all configurable server parameters.
type Config struct {
	MaxRounds            int    `json:"max_rounds"`
	MaxNameLength        int    `json:"max_name_length"`
	WSPort               int    `json:"ws_port"`
	HeartbeatIntervalSec int    `json:"heartbeat_interval_sec"`
	SessionTimeoutSec    int    `json:"session_timeout_sec"`
	IdleGameTimeoutSec   int    `json:"idle_game_timeout_sec"`
	LobbyRoomCount       int    `json:"lobby_room_count"`
	WordListPath         string `json:"word_list_path"`

	// DatabaseURL enables match-history persistence when set. Empty
	// means no persistence.
	DatabaseURL string `json:"-"`

	// AuthBaseURL is the base URL of the identity provider whose JWKS
	// endpoint verifies client tokens.
	AuthBaseURL string `json:"-"`

	// Spells holds configuration for each spell.
	Spells SpellsConfig `json:"spells"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		MaxRounds:            6,
		MaxNameLength:        24,
		WSPort:               8080,
		HeartbeatIntervalSec: 5,
		SessionTimeoutSec:    10,
		IdleGameTimeoutSec:   1800,
		LobbyRoomCount:       3,
		Spells: SpellsConfig{
			Flash: FlashSpellConfig{DurationMS: 3000},
			Wrong: WrongSpellConfig{Letters: 5},
			Block: BlockSpellConfig{DurationMS: 3000},
		},
	}
}

// Load reads configuration from an optional config.json file, then
// applies environment variable overrides. Fields not set in either
// source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.MaxRounds, "MAX_ROUNDS")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.HeartbeatIntervalSec, "HEARTBEAT_INTERVAL_SEC")
	overrideInt(&cfg.SessionTimeoutSec, "SESSION_TIMEOUT_SEC")
	overrideInt(&cfg.IdleGameTimeoutSec, "IDLE_GAME_TIMEOUT_SEC")
	overrideInt(&cfg.LobbyRoomCount, "LOBBY_ROOM_COUNT")
	overrideString(&cfg.WordListPath, "WORD_LIST_PATH")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overrideInt(&cfg.Spells.Flash.DurationMS, "SPELL_FLASH_DURATION_MS")
	overrideInt(&cfg.Spells.Wrong.Letters, "SPELL_WRONG_LETTERS")
	overrideInt(&cfg.Spells.Block.DurationMS, "SPELL_BLOCK_DURATION_MS")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
