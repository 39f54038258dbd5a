package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStart(t *testing.T) {
	interval := 10 * time.Second
	tests := []struct {
		unix int64
		want int64
	}{
		{1000, 1000},
		{1005, 1000},
		{1009, 1000},
		{1010, 1010},
		{0, 0},
		{-1, -10},
	}
	for _, tt := range tests {
		t.Run(strconv.FormatInt(tt.unix, 10), func(t *testing.T) {
			assert.Equal(t, tt.want, SlotStart(time.Unix(tt.unix, 0), interval))
		})
	}
	assert.Equal(t, int64(1005), SlotStart(time.Unix(1005, 0), 500*time.Millisecond))
}

func TestBuildMessage(t *testing.T) {
	assert.Equal(t, "attendance:1000:Spk", BuildMessage(1000, "Spk"))
}

func TestChallengeIssuer_Issue(t *testing.T) {
	server, err := signature.GenerateKeyPair()
	require.NoError(t, err)
	clock := newFakeClock(1003)
	m := &recordingMetrics{}

	issuer := NewChallengeIssuer(server, 10*time.Second, clock.Now, m)
	ch := issuer.Issue()

	assert.Equal(t, int64(1000), ch.SlotStart)
	assert.Equal(t, "attendance:1000:"+server.PublicKeyString(), ch.Message)
	assert.Equal(t, server.PublicKeyString(), ch.ServerPublicKey)
	assert.True(t, signature.VerifyEncoded(server.PublicKeyString(), ch.Message, ch.Signature))

	clock.Set(1009)
	assert.Equal(t, ch, issuer.Issue(), "same slot, same content")

	clock.Set(1010)
	next := issuer.Issue()
	assert.Equal(t, int64(1010), next.SlotStart)
	assert.NotEqual(t, ch.Signature, next.Signature)

	assert.Equal(t, 3, m.challenges)
	assert.Equal(t, 10*time.Second, issuer.Interval())
}

func TestChallenge_QRPayloadRoundTrip(t *testing.T) {
	server, err := signature.GenerateKeyPair()
	require.NoError(t, err)

	ch := NewChallengeIssuer(server, 10*time.Second, newFakeClock(1000).Now, nil).Issue()
	payload, err := ch.QRPayload()
	require.NoError(t, err)
	assert.Contains(t, payload, `"timestamp":1000`)
	assert.Contains(t, payload, `"server_public_key":"`+server.PublicKeyString()+`"`)

	back, err := models.ParseQRPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, ch, back)

	_, err = models.ParseQRPayload("not json")
	assert.Error(t, err)
}
