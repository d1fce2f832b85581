package api

import (
	"fmt"
	"strings"

	"github.com/thesavant42/waybackpulse/internal/models"
)

// ParseTarget parses a "domain" or "domain=label" argument
// Without a label the site is named after the registrable domain (see SiteLabel).
func ParseTarget(arg string) (models.Target, error) {
	domainPart, label, hasLabel := strings.Cut(arg, "=")

	domain, err := NormalizeDomain(domainPart)
	if err != nil {
		return models.Target{}, err
	}

	label = strings.TrimSpace(label)
	if hasLabel && label == "" {
		return models.Target{}, fmt.Errorf("empty site label in %q", arg)
	}
	if label == "" {
		label = SiteLabel(domain)
	}

	return models.Target{Domain: domain, Site: label}, nil
}

// ParseTargets parses a list of target arguments, also splitting comma-separated entries.
// Every capture must be counted once under one label: duplicate domains, domains
// nested under another target (matchType=domain already covers them) and
// repeated site labels are rejected.
func ParseTargets(args []string) ([]models.Target, error) {
	var targets []models.Target
	sites := make(map[string]string)

	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := ParseTarget(part)
			if err != nil {
				return nil, err
			}
			for _, prev := range targets {
				if prev.Domain == t.Domain {
					return nil, fmt.Errorf("domain %s listed more than once", t.Domain)
				}
				if covers(prev.Domain, t.Domain) || covers(t.Domain, prev.Domain) {
					return nil, fmt.Errorf("domains %s and %s overlap: captures of the subdomain would be counted twice", prev.Domain, t.Domain)
				}
			}
			if owner, ok := sites[t.Site]; ok {
				return nil, fmt.Errorf("site label %q used by both %s and %s: set one explicitly with domain=label", t.Site, owner, t.Domain)
			}
			sites[t.Site] = t.Domain
			targets = append(targets, t)
		}
	}

	return targets, nil
}

// covers reports whether sub is a strict subdomain of parent
func covers(parent, sub string) bool {
	return strings.HasSuffix(sub, "."+parent)
}
