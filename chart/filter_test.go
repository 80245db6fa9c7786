package chart

import (
	"testing"

	"github.com/breez/feechart/lightning"
	"github.com/stretchr/testify/assert"
)

const (
	testPeer  = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	otherPeer = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
)

func forwardOver(in, out lightning.ShortChannelID) *lightning.ForwardEvent {
	return &lightning.ForwardEvent{
		FeeSat:     1,
		Timestamp:  testNow,
		InChannel:  in,
		OutChannel: out,
	}
}

func Test_FilterViaPeer(t *testing.T) {
	forwards := []*lightning.ForwardEvent{
		forwardOver(10, 20),
		forwardOver(20, 30),
		forwardOver(30, 40),
		forwardOver(50, 10),
		forwardOver(40, 60),
	}
	private := []*lightning.Channel{
		{ID: 10, PeerID: testPeer, Private: true},
		{ID: 40, PeerID: otherPeer, Private: true},
	}
	public := []*lightning.Channel{
		{ID: 30},
	}

	result := FilterViaPeer(forwards, private, public, testPeer)
	assert.Equal(t, []*lightning.ForwardEvent{
		forwards[0],
		forwards[1],
		forwards[2],
		forwards[3],
	}, result)
}

func Test_FilterViaPeer_NoChannels(t *testing.T) {
	forwards := []*lightning.ForwardEvent{
		forwardOver(10, 20),
		forwardOver(20, 30),
	}

	result := FilterViaPeer(forwards, nil, nil, testPeer)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	result = FilterViaPeer(forwards, []*lightning.Channel{{ID: 10, PeerID: otherPeer}}, nil, testPeer)
	assert.Empty(t, result)
}
