package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FeePolicyFlat     = "flat"
	FeePolicyDistance = "distance"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaBrokers empty means notifications are only logged.
	KafkaBrokers      []string
	KafkaLockerTopic  string
	KafkaGeneralTopic string

	// RedisAddr empty means PIN attempts are counted in memory.
	RedisAddr string

	// PointsServiceURL empty means no points are awarded.
	PointsServiceURL string

	PaymentWindow     time.Duration
	PinTTL            time.Duration
	DeliveryDelayMin  time.Duration
	DeliveryDelayMax  time.Duration
	SweepSchedule     string
	DeliveryFeePolicy string
	FlatDeliveryFee   decimal.Decimal
	PinMaxAttempts    int
	LogLevel          string
}

// LoadConfig reads the configuration through getenv, applying defaults for
// every unset variable.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:          env("HTTP_PORT", "8080"),
		DBHost:            env("DB_HOST", "localhost"),
		DBPort:            env("DB_PORT", "5432"),
		DBUser:            env("DB_USER", "postgres"),
		DBPassword:        env("DB_PASSWORD", ""),
		DBName:            env("DB_NAME", "lockers"),
		DBSslMode:         env("DB_SSLMODE", "disable"),
		KafkaBrokers:      splitList(getenv("KAFKA_BROKERS")),
		KafkaLockerTopic:  env("KAFKA_LOCKER_TOPIC", "locker-notifications"),
		KafkaGeneralTopic: env("KAFKA_GENERAL_TOPIC", "notifications"),
		RedisAddr:         env("REDIS_ADDR", ""),
		PointsServiceURL:  env("POINTS_SERVICE_URL", ""),
		SweepSchedule:     env("SWEEP_SCHEDULE", "@every 1m"),
		DeliveryFeePolicy: env("DELIVERY_FEE_POLICY", FeePolicyFlat),
		LogLevel:          env("LOG_LEVEL", "info"),
	}

	var errList []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(env(key, def))
		if err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", key, err))
			return 0
		}
		if d <= 0 {
			errList = append(errList, fmt.Errorf("%s: %s is not positive", key, d))
		}
		return d
	}
	cfg.PaymentWindow = duration("PAYMENT_WINDOW", "30m")
	cfg.PinTTL = duration("PIN_TTL", "24h")
	cfg.DeliveryDelayMin = duration("DELIVERY_DELAY_MIN", "1h")
	cfg.DeliveryDelayMax = duration("DELIVERY_DELAY_MAX", "3h")
	if cfg.DeliveryDelayMax < cfg.DeliveryDelayMin {
		errList = append(errList, fmt.Errorf("DELIVERY_DELAY_MAX %s is below DELIVERY_DELAY_MIN %s",
			cfg.DeliveryDelayMax, cfg.DeliveryDelayMin))
	}

	fee, err := decimal.NewFromString(env("FLAT_DELIVERY_FEE", "2.00"))
	switch {
	case err != nil:
		errList = append(errList, fmt.Errorf("FLAT_DELIVERY_FEE: %w", err))
	case fee.IsNegative():
		errList = append(errList, fmt.Errorf("FLAT_DELIVERY_FEE: %s is negative", fee))
	}
	cfg.FlatDeliveryFee = fee

	attempts, err := strconv.Atoi(env("PIN_MAX_ATTEMPTS", "5"))
	if err != nil || attempts <= 0 {
		errList = append(errList, fmt.Errorf("PIN_MAX_ATTEMPTS: %q is not a positive integer", getenv("PIN_MAX_ATTEMPTS")))
	}
	cfg.PinMaxAttempts = attempts

	if cfg.DeliveryFeePolicy != FeePolicyFlat && cfg.DeliveryFeePolicy != FeePolicyDistance {
		errList = append(errList, fmt.Errorf("DELIVERY_FEE_POLICY: %q is neither %q nor %q",
			cfg.DeliveryFeePolicy, FeePolicyFlat, FeePolicyDistance))
	}

	return cfg, errors.Join(errList...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
