package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Subscriber is a newsletter recipient.
type Subscriber struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Subscribed       bool      `json:"subscribed"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
	UnsubscribeToken string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PushSubscription is a browser endpoint of the site owner that receives web
// push alerts about new contact messages.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

func NewUnsubscribeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
