package cln

// rpcMethod is a lightningd json-rpc method. The json fields of the
// implementing struct are sent as named parameters.
type rpcMethod interface {
	Name() string
}

type listForwardsRequest struct {
	Status string `json:"status,omitempty"`
}

func (r *listForwardsRequest) Name() string {
	return "listforwards"
}

type listForwardsResponse struct {
	Forwards []clnForward `json:"forwards"`
}

type clnForward struct {
	InChannel    string  `json:"in_channel"`
	OutChannel   string  `json:"out_channel"`
	FeeMsat      uint64  `json:"fee_msat"`
	Status       string  `json:"status"`
	ReceivedTime float64 `json:"received_time"`
	ResolvedTime float64 `json:"resolved_time"`
}

type listPeerChannelsRequest struct{}

func (r *listPeerChannelsRequest) Name() string {
	return "listpeerchannels"
}

type listPeerChannelsResponse struct {
	Channels []peerChannel `json:"channels"`
}

type peerChannel struct {
	PeerID         string `json:"peer_id"`
	ShortChannelID string `json:"short_channel_id"`
	Private        bool   `json:"private"`
	State          string `json:"state"`
}

type listNodesRequest struct {
	ID string `json:"id,omitempty"`
}

func (r *listNodesRequest) Name() string {
	return "listnodes"
}

type listNodesResponse struct {
	Nodes []clnNode `json:"nodes"`
}

type clnNode struct {
	NodeID string `json:"nodeid"`
	Alias  string `json:"alias"`
}

type listChannelsRequest struct {
	Source string `json:"source,omitempty"`
}

func (r *listChannelsRequest) Name() string {
	return "listchannels"
}

type listChannelsResponse struct {
	Channels []graphChannel `json:"channels"`
}

type graphChannel struct {
	ShortChannelID string `json:"short_channel_id"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	Public         bool   `json:"public"`
}
