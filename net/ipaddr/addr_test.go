package ipaddr

import (
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterIPv4(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("192.168.1.10"), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPAddr{IP: net.ParseIP("10.0.0.2")},
		&net.UnixAddr{Name: "/tmp/s", Net: "unix"},
	}

	if diff := cmp.Diff([]string{"192.168.1.10", "10.0.0.2"}, filterIPv4(addrs)); diff != "" {
		t.Error(diff)
	}
}

func TestURLs(t *testing.T) {
	for _, u := range URLs("3000") {
		if !strings.HasPrefix(u, "http://") || !strings.HasSuffix(u, ":3000/") {
			t.Error("unexpected url: ", u)
		}
	}
}
