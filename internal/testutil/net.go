package testutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// FreeUDPPort reserves and releases a UDP port on the loopback interface.
func FreeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())
	return port
}

// SendUDP writes one datagram to addr.
func SendUDP(t *testing.T, addr string, payload []byte) {
	t.Helper()
	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(payload)
	require.NoError(t, err)
}
