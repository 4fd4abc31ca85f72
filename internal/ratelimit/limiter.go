package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Rule is a named request budget.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	Messages  = Rule{Name: "messages", Limit: 5, Window: time.Hour}
	Subscribe = Rule{Name: "subscribe", Limit: 3, Window: time.Hour}
	Login     = Rule{Name: "login", Limit: 10, Window: 15 * time.Minute}
	General   = Rule{Name: "general", Limit: 1000, Window: 15 * time.Minute}
)

func (rule Rule) normalized() Rule {
	if rule.Limit < 1 {
		rule.Limit = 1
	}
	if rule.Window <= 0 {
		rule.Window = time.Minute
	}
	return rule
}
