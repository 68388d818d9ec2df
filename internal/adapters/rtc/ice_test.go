package rtc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestICEServers(t *testing.T) {
	req := require.New(t)

	servers, err := ICEServers([]string{
		"stun:stun.example.org:3478",
		"turn:turn.example.org:3478?transport=udp|alice|s3cret",
	})
	req.NoError(err)
	req.Len(servers, 2)
	req.Equal([]string{"stun:stun.example.org:3478"}, servers[0].URLs)
	req.Empty(servers[0].Username)
	req.Equal("alice", servers[1].Username)
	req.Equal("s3cret", servers[1].Credential)
}

func TestICEServers_DefaultsAndErrors(t *testing.T) {
	req := require.New(t)

	servers, err := ICEServers(nil)
	req.NoError(err)
	req.Equal(defaultICEURLs, servers[0].URLs)

	_, err = ICEServers([]string{"turn:host:3478|onlyuser"})
	req.Error(err)
	_, err = ICEServers([]string{"http://not-ice"})
	req.Error(err)

	cfg, err := Configuration([]string{"stun:stun.example.org"})
	req.NoError(err)
	req.Len(cfg.ICEServers, 1)
}
