package config

import (
	"fmt"
	"os"
)

// BillingConfig holds the shared secret authenticating calls from the
// billing reconciliation process.
type BillingConfig struct {
	WebhookSecret string
}

// NewBillingConfig creates the billing configuration from environment
// variables. It reads BILLING_WEBHOOK_SECRET (required).
func NewBillingConfig() (*BillingConfig, error) {
	secret := os.Getenv("BILLING_WEBHOOK_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("BILLING_WEBHOOK_SECRET is required but not set")
	}

	return &BillingConfig{WebhookSecret: secret}, nil
}
