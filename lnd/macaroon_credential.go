package lnd

import (
	"context"
)

// macaroonCredential attaches the hex encoded macaroon to every rpc call.
type macaroonCredential struct {
	macaroonHex string
}

func newMacaroonCredential(hex string) *macaroonCredential {
	return &macaroonCredential{
		macaroonHex: hex,
	}
}

func (m *macaroonCredential) RequireTransportSecurity() bool {
	return true
}

func (m *macaroonCredential) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{
		"macaroon": m.macaroonHex,
	}, nil
}
