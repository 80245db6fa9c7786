package chart

import "github.com/breez/feechart/lightning"

// ChannelSet holds the known channels of a single peer.
type ChannelSet struct {
	Private []*lightning.Channel
	Public  []*lightning.Channel
}

// FilterViaPeer returns the forwards that came in or went out over one of
// the channels with peer via, in their original order.
//
// private is the node's own private channel list, which holds channels with
// every peer, so only the entries with via as peer count. public are the
// graph channels of via and are taken as they are.
func FilterViaPeer(
	forwards []*lightning.ForwardEvent,
	private []*lightning.Channel,
	public []*lightning.Channel,
	via string,
) []*lightning.ForwardEvent {
	channels := make(map[lightning.ShortChannelID]struct{}, len(private)+len(public))
	for _, c := range private {
		if c.PeerID != via {
			continue
		}
		channels[c.ID] = struct{}{}
	}
	for _, c := range public {
		channels[c.ID] = struct{}{}
	}

	result := make([]*lightning.ForwardEvent, 0)
	if len(channels) == 0 {
		return result
	}

	for _, f := range forwards {
		_, in := channels[f.InChannel]
		_, out := channels[f.OutChannel]
		if in || out {
			result = append(result, f)
		}
	}

	return result
}
