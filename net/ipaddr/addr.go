package ipaddr

import (
	"net"
)

// LocalIPv4Addrs lists the non-loopback IPv4 addresses of interfaces that are up.
func LocalIPv4Addrs() ([]string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var ips []string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, er := iface.Addrs()
		if er != nil {
			continue
		}
		ips = append(ips, filterIPv4(addrs)...)
	}
	return ips, nil
}

func filterIPv4(addrs []net.Addr) []string {
	var ips []string
	for _, addr := range addrs {
		var ip net.IP

		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}

		if ip == nil || ip.IsLoopback() || ip.To4() == nil {
			continue
		}

		ips = append(ips, ip.String())
	}
	return ips
}

// URLs returns http://<ip>:<port>/ for every local IPv4 address.
func URLs(port string) []string {
	ips, err := LocalIPv4Addrs()
	if err != nil {
		return nil
	}
	urls := make([]string, 0, len(ips))
	for _, ip := range ips {
		urls = append(urls, "http://"+net.JoinHostPort(ip, port)+"/")
	}
	return urls
}
