// internal/workers/communication/send-otp/config.go
package sendotp

import "time"

type Config struct {
	Timeout time.Duration
	// SkipVerified completes the job without sending when the user is
	// already verified.
	SkipVerified bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		SkipVerified: true,
	}
}
