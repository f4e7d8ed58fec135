package net

import (
	"fmt"
	"net"
	"strings"
)

// Scheme prefixes share links, e.g. localnotes://192.168.1.20:8888.
const Scheme = "localnotes://"

// LocalIP finds the address other machines on the LAN can reach this host
// on. It asks the routing table first and falls back to the first non
// loopback IPv4 interface address, then to loopback.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	return firstIPv4().String()
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}

// ShareLink builds the link viewers use to join a host.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s", Scheme, net.JoinHostPort(ip, fmt.Sprint(port)))
}

// ParseLink extracts host:port from a share link. A bare host:port is
// accepted as well.
func ParseLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(link), Scheme), "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", link, err)
	}
	if host == "" || port == "" {
		return "", fmt.Errorf("invalid share link %q: missing host or port", link)
	}
	return net.JoinHostPort(host, port), nil
}

// IsLink reports whether arg looks like a share link.
func IsLink(arg string) bool {
	return strings.HasPrefix(arg, Scheme)
}

func wsURL(addr string) string {
	return "ws://" + addr + "/ws"
}
