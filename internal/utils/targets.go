package utils

import (
	"net"
	"os"

	"github.com/rs/zerolog/log"
)

func isFile(s string) bool {
	_, err := os.Stat(s)
	return err == nil
}

func isCIDR(s string) bool {
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

// ExtractTargets expands every element of list that is a CIDR range or a
// file of hosts, and passes plain hosts through.
func ExtractTargets(list []string) []string {
	var res []string
	for _, l := range list {
		if isCIDR(l) {
			ip, ipnet, _ := net.ParseCIDR(l)
			var ips []string
			for ip := ip.Mask(ipnet.Mask); ipnet.Contains(ip); inc(ip) {
				ips = append(ips, ip.String())
			}
			// Drop network and broadcast addresses, but /31 and /32
			// ranges have no hosts to spare.
			if len(ips) > 2 {
				ips = ips[1 : len(ips)-1]
			}
			res = append(res, ips...)
		} else if isFile(l) {
			o, err := readLines(l)
			if err != nil {
				log.Warn().Str("target", l).Err(err).Msg("cannot read target list")
				continue
			}
			res = append(res, o...)
		} else {
			res = append(res, l)
		}
	}
	return res
}
