package services

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

// MessagePrefix starts every challenge message.
const MessagePrefix = "attendance:"

// BuildMessage returns the exact string both parties sign for a slot.
func BuildMessage(slotStart int64, serverPublicKey string) string {
	return MessagePrefix + strconv.FormatInt(slotStart, 10) + ":" + serverPublicKey
}

// SlotStart quantizes t down to a multiple of interval, in unix seconds.
// Intervals below one second are treated as one second.
func SlotStart(t time.Time, interval time.Duration) int64 {
	step := int64(interval / time.Second)
	if step < 1 {
		step = 1
	}
	now := t.Unix()
	slot := now / step * step
	if now < 0 && now%step != 0 {
		slot -= step
	}
	return slot
}

// ChallengeIssuer signs the challenge of the current slot with the server
// key. Issuing twice within a slot yields identical content.
type ChallengeIssuer struct {
	key       *signature.KeyPair
	publicKey string
	interval  time.Duration
	clock     timex.Clock
	metrics   Metrics
}

func NewChallengeIssuer(key *signature.KeyPair, interval time.Duration, clock timex.Clock, m Metrics) *ChallengeIssuer {
	if clock == nil {
		clock = timex.SystemClock
	}
	if m == nil {
		m = NopMetrics{}
	}
	return &ChallengeIssuer{
		key:       key,
		publicKey: key.PublicKeyString(),
		interval:  interval,
		clock:     clock,
		metrics:   m,
	}
}

// ServerPublicKey returns the base-58 key challenges are signed with.
func (c *ChallengeIssuer) ServerPublicKey() string { return c.publicKey }

// Interval returns the slot width.
func (c *ChallengeIssuer) Interval() time.Duration { return c.interval }

// Issue returns the challenge for the current slot.
func (c *ChallengeIssuer) Issue() *models.Challenge {
	return c.IssueAt(c.clock())
}

// IssueAt returns the challenge for the slot containing t.
func (c *ChallengeIssuer) IssueAt(t time.Time) *models.Challenge {
	slot := SlotStart(t, c.interval)
	msg := BuildMessage(slot, c.publicKey)
	c.metrics.ChallengeIssued()
	return &models.Challenge{
		Message:         msg,
		Signature:       signature.SignString(c.key.PrivateKey, msg),
		SlotStart:       slot,
		ServerPublicKey: c.publicKey,
	}
}
