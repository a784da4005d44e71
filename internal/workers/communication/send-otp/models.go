// internal/workers/communication/send-otp/models.go
package sendotp

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	OTPSent bool   `json:"otpSent"`
	Channel string `json:"channel,omitempty"`
	// Reason is set when no code was sent.
	Reason string `json:"reason,omitempty"`
}

const reasonAlreadyVerified = "already_verified"
