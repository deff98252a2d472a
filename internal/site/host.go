// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"net"
	"regexp"
	"strings"
)

// DefaultSitesLabel is the second DNS label of generated hostnames, as in
// acme-clinic-4821.sites.example.com.
const DefaultSitesLabel = "sites"

// HostTarget is what an inbound Host header points at. Exactly one of the
// fields is set for a usable host; both are empty when the host is blank.
type HostTarget struct {
	Hostname     string // generated hostname label
	CustomDomain string // full host, port stripped
}

// Empty reports whether the host carried nothing to resolve.
func (t HostTarget) Empty() bool {
	return t.Hostname == "" && t.CustomDomain == ""
}

// HostMatcher splits Host headers into generated hostnames and custom
// domains for one sites label.
type HostMatcher struct {
	re *regexp.Regexp
}

// NewHostMatcher builds a matcher for {hostname}.{label}.* hosts.
func NewHostMatcher(sitesLabel string) *HostMatcher {
	if sitesLabel == "" {
		sitesLabel = DefaultSitesLabel
	}
	return &HostMatcher{
		re: regexp.MustCompile(`^([^.]+)\.` + regexp.QuoteMeta(strings.ToLower(sitesLabel)) + `\.`),
	}
}

// Parse classifies a Host header value.
func (m *HostMatcher) Parse(host string) HostTarget {
	host = normalizeHost(host)
	if host == "" {
		return HostTarget{}
	}
	if match := m.re.FindStringSubmatch(host); match != nil {
		return HostTarget{Hostname: match[1]}
	}
	return HostTarget{CustomDomain: host}
}

// ParseHost is a one-off form of HostMatcher.Parse.
func ParseHost(host, sitesLabel string) HostTarget {
	return NewHostMatcher(sitesLabel).Parse(host)
}

// normalizeHost lowercases host and strips any port, brackets around IPv6
// literals and a trailing root dot.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return strings.TrimSuffix(host, ".")
}
