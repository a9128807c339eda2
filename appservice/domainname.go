package appservice

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var domainLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// GetDomainNameComponents splits a domain name into its lower-cased labels:
// "foo.co.in" gives ["foo", "co", "in"]. Empty labels are dropped.
func GetDomainNameComponents(domainName string) []string {
	components := []string{}
	for _, label := range strings.Split(strings.TrimSpace(domainName), ".") {
		if label = strings.TrimSpace(label); label != "" {
			components = append(components, strings.ToLower(label))
		}
	}
	return components
}

// GetPossibleTopLevelDomainName drops the first label: "foo.co.in" gives "co.in".
// Names with a single label have no top-level domain and give "".
func GetPossibleTopLevelDomainName(domainName string) string {
	components := GetDomainNameComponents(domainName)
	if len(components) < 2 {
		return ""
	}
	return strings.Join(components[1:], ".")
}

// ValidateDomainName reports whether domainName is a syntactically valid registrable name whose
// top-level domain is one of topLevelDomains (compared case-insensitively, leading dots ignored).
func ValidateDomainName(domainName string, topLevelDomains mapset.Set[string]) bool {
	components := GetDomainNameComponents(domainName)
	if len(components) < 2 || topLevelDomains == nil {
		return false
	}
	for _, label := range components {
		if !domainLabel.MatchString(label) {
			return false
		}
	}

	candidate := strings.Join(components[1:], ".")
	found := false
	topLevelDomains.Each(func(topLevelDomain string) bool {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(topLevelDomain), "."), candidate) {
			found = true
		}
		return found
	})
	return found
}
